package view

import (
	"github.com/luckybot/adminview/internal/client"
	"github.com/luckybot/adminview/internal/entity"
	"github.com/puzpuzpuz/xsync/v2"
)

// Registry tracks the open edit pages, one per lottery id. Opening a lottery
// that is already open returns the existing page so exactly one store owns
// that lottery's snapshot.
type Registry struct {
	api   client.LotteryAPI
	pages *xsync.MapOf[string, *EditPage]
}

func NewRegistry(api client.LotteryAPI) *Registry {
	return &Registry{
		api:   api,
		pages: xsync.NewMapOf[*EditPage](),
	}
}

func (r *Registry) Open(
	lotteryID, token string,
	toast Toaster,
	viewport Viewport,
	onDrawSuccess func([]entity.Winner),
) *EditPage {
	page, _ := r.pages.LoadOrCompute(lotteryID, func() *EditPage {
		return NewEditPage(r.api, lotteryID, token, toast, viewport, onDrawSuccess)
	})
	return page
}

func (r *Registry) Get(lotteryID string) (*EditPage, bool) {
	return r.pages.Load(lotteryID)
}

// Close cancels the page's in-flight work and forgets it.
func (r *Registry) Close(lotteryID string) {
	if page, ok := r.pages.LoadAndDelete(lotteryID); ok {
		page.Close()
	}
}
