package storefront

import (
	"github.com/Reagan-marera/imoflames-sub000/internal/catalog"
	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	"github.com/Reagan-marera/imoflames-sub000/internal/product"
	"github.com/Reagan-marera/imoflames-sub000/pkg/pagination"
)

// ProductView is a displayed product with the actions the session may take.
type ProductView struct {
	domain.Product
	Permissions catalog.Permissions `json:"permissions"`
	State       product.RowState    `json:"state"`
}

// CarouselView is the featured carousel state.
type CarouselView struct {
	Index  int                `json:"index"`
	Slides [][]domain.Product `json:"slides"`
}

// CartView is the local cart.
type CartView struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

// View is everything the catalog screen renders.
type View struct {
	Query      domain.QueryDescriptor `json:"query"`
	Viewport   domain.ViewportClass   `json:"viewport"`
	Loading    bool                   `json:"loading"`
	Error      string                 `json:"error,omitempty"`
	Products   []ProductView          `json:"products"`
	TotalItems int                    `json:"total_items"`
	Pager      pagination.Pager       `json:"pager"`
	Carousel   CarouselView           `json:"carousel"`
	Gallery    catalog.GalleryView    `json:"gallery"`
	CartCount  int                    `json:"cart_count"`
	User       *domain.CurrentUser    `json:"user,omitempty"`
	Draft      *domain.EditDraft      `json:"draft,omitempty"`
}

// View derives the screen from the current page and query. The displayed
// products and their permissions are computed on every call.
func (c *Controller) View() View {
	q := c.query.Descriptor()
	state := c.coordinator.State()
	s := c.sessions.Current()

	display := catalog.Refine(state.Page, q.Category, q.Search)
	products := make([]ProductView, 0, len(display))
	for _, p := range display {
		products = append(products, ProductView{
			Product:     p,
			Permissions: catalog.PermissionsFor(s, p),
			State:       c.products.State(p.ID),
		})
	}

	v := View{
		Query:      q,
		Viewport:   c.query.Viewport(),
		Loading:    state.Loading,
		Error:      state.Error,
		Products:   products,
		TotalItems: state.Page.TotalItems,
		Pager:      pagination.NewPager(q.Page, state.Page.TotalPages),
		Carousel: CarouselView{
			Index:  c.carousel.Index(),
			Slides: c.carousel.Slides(),
		},
		Gallery:   c.gallery.View(),
		CartCount: c.cart.Count(),
	}
	if u, ok := s.User(); ok {
		v.User = &u
	}
	if d, ok := c.products.Draft(); ok {
		v.Draft = &d
	}
	return v
}

// CartView returns the local cart.
func (c *Controller) CartView() CartView {
	return CartView{
		Items: c.cart.Items(),
		Count: c.cart.Count(),
		Total: c.cart.Total(),
	}
}
