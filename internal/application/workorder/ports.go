package workorder

import (
	"context"

	"github.com/jhoicas/fieldops-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de órdenes y marcaciones atados a ella.
// Lo implementa postgres.TxRunner (el mismo que usa el libro de marcaciones).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		punchRepo repository.PunchRepository,
		workOrderRepo repository.WorkOrderRepository,
	) error) error
}
