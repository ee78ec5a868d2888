package interpreter

import (
	"context"
	"sync"

	"github.com/hassan3301/dailycrm/internal/domain"
)

var _ documentRenderer = &documentRendererMock{}

type documentRendererMock struct {
	RenderInvoiceFunc func(ctx context.Context, inv *domain.Invoice, contact *domain.Contact) ([]byte, error)

	calls struct {
		RenderInvoice []struct {
			Ctx     context.Context
			Inv     *domain.Invoice
			Contact *domain.Contact
		}
	}
	lockRenderInvoice sync.RWMutex
}

func (mock *documentRendererMock) RenderInvoice(ctx context.Context, inv *domain.Invoice, contact *domain.Contact) ([]byte, error) {
	if mock.RenderInvoiceFunc == nil {
		panic("documentRendererMock.RenderInvoiceFunc: method is nil but documentRenderer.RenderInvoice was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Inv     *domain.Invoice
		Contact *domain.Contact
	}{Ctx: ctx, Inv: inv, Contact: contact}
	mock.lockRenderInvoice.Lock()
	mock.calls.RenderInvoice = append(mock.calls.RenderInvoice, callInfo)
	mock.lockRenderInvoice.Unlock()
	return mock.RenderInvoiceFunc(ctx, inv, contact)
}

func (mock *documentRendererMock) RenderInvoiceCalls() []struct {
	Ctx     context.Context
	Inv     *domain.Invoice
	Contact *domain.Contact
} {
	mock.lockRenderInvoice.RLock()
	calls := mock.calls.RenderInvoice
	mock.lockRenderInvoice.RUnlock()
	return calls
}
