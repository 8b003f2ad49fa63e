package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/banner"
	"github.com/milluces/milluces-backend/internal/category"
	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/product"
	"github.com/milluces/milluces-backend/internal/taxonomy"
)

const errorMessage = "No se pudo cargar el contenido. Inténtalo de nuevo más tarde."

type Handler struct {
	src Sources
	log *zap.Logger
}

func NewHandler(src Sources, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{src: src, log: log}
}

// RegisterPublicRoutes mounts the read views; r is the /api/v1 group.
func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	store := r.Group("/store")
	store.Get("/home", h.home)
	store.Get("/categories", h.categories)
	store.Get("/rooms", h.terms(taxonomy.KindRoom))
	store.Get("/brands", h.terms(taxonomy.KindBrand))
	store.Get("/professions", h.terms(taxonomy.KindProfession))
	store.Get("/products", h.products)
	store.Get("/products/:slug", h.product)
	store.Get("/blog", h.posts)
	store.Get("/blog/:slug", h.post)
	store.Get("/projects", h.projects)
	store.Get("/professionals", h.professionals)
}

// logged wraps fetch so a failed read is logged under view.
func logged[T any](log *zap.Logger, view string, fetch func(context.Context) ([]T, error)) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		items, err := fetch(ctx)
		if err != nil {
			log.Error("storefront read failed", zap.String("view", view), zap.Error(err))
		}
		return items, err
	}
}

// list answers a list view, or 503 with the banner flag when the read failed.
func list[T any](c *fiber.Ctx, log *zap.Logger, view string, fetch func(context.Context) ([]T, error), static []T) error {
	r, err := Load(c.UserContext(), logged(log, view, fetch), static)
	if err != nil {
		return unavailable(c)
	}
	return c.JSON(r)
}

func unavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": errorMessage, "banner": true})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
}

type homeView struct {
	Sliders     Section[banner.Slider]     `json:"sliders"`
	Categories  Section[category.Category] `json:"categories"`
	WhyChooseUs Section[content.Feature]   `json:"why_choose_us"`
	Featured    Section[product.Product]   `json:"featured_products"`
	Projects    Section[content.Project]   `json:"projects"`
}

// home loads its sections concurrently; one failing section does not fail the page.
func (h *Handler) home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var (
		view homeView
		wg   sync.WaitGroup
	)
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	run(func() { view.Sliders = section(ctx, logged(h.log, "home.sliders", h.activeSliders), staticSliders) })
	run(func() { view.Categories = section(ctx, logged(h.log, "home.categories", h.src.Categories.Tree), staticCategories) })
	run(func() {
		view.WhyChooseUs = section(ctx, logged(h.log, "home.why_choose_us", h.src.WhyChooseUs.List), staticWhyChooseUs)
	})
	run(func() { view.Featured = section(ctx, logged(h.log, "home.featured", h.featured), staticProducts) })
	run(func() { view.Projects = section(ctx, logged(h.log, "home.projects", h.src.Projects.List), staticProjects) })
	wg.Wait()
	return c.JSON(view)
}

func (h *Handler) activeSliders(ctx context.Context) ([]banner.Slider, error) {
	return h.src.Sliders.List(ctx, banner.ListOptions{ActiveOnly: true})
}

func (h *Handler) featured(ctx context.Context) ([]product.Product, error) {
	yes := true
	return h.src.Products.List(ctx, product.Filter{Featured: &yes})
}

func (h *Handler) categories(c *fiber.Ctx) error {
	return list(c, h.log, "categories", h.src.Categories.Tree, staticCategories)
}

func (h *Handler) terms(kind taxonomy.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fetch := func(ctx context.Context) ([]taxonomy.Term, error) {
			return h.src.Taxonomy.List(ctx, kind)
		}
		return list(c, h.log, string(kind), fetch, staticTerms[kind])
	}
}

// products falls back to the sample only for the unfiltered listing; an
// empty filtered result is a real answer.
func (h *Handler) products(c *fiber.Ctx) error {
	f := product.FilterFromQuery(c)
	fetch := func(ctx context.Context) ([]product.Product, error) {
		return h.src.Products.List(ctx, f)
	}
	var static []product.Product
	if f == (product.Filter{}) {
		static = staticProducts
	}
	return list(c, h.log, "products", fetch, static)
}

func (h *Handler) product(c *fiber.Ctx) error {
	p, err := h.src.Products.FindBySlugOrID(c.UserContext(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return notFound(c)
		}
		h.log.Error("storefront read failed", zap.String("view", "product"), zap.Error(err))
		return unavailable(c)
	}
	return c.JSON(p)
}

func (h *Handler) posts(c *fiber.Ctx) error {
	return list(c, h.log, "blog", h.src.Posts.List, staticPosts)
}

func (h *Handler) post(c *fiber.Ctx) error {
	p, err := h.src.Posts.FindBySlugOrID(c.UserContext(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return notFound(c)
		}
		h.log.Error("storefront read failed", zap.String("view", "blog_post"), zap.Error(err))
		return unavailable(c)
	}
	return c.JSON(p)
}

func (h *Handler) projects(c *fiber.Ctx) error {
	return list(c, h.log, "projects", h.src.Projects.List, staticProjects)
}

type professionalsView struct {
	Benefits Result[content.Feature]    `json:"benefits"`
	Sections Result[content.ProSection] `json:"sections"`
}

func (h *Handler) professionals(c *fiber.Ctx) error {
	ctx := c.UserContext()
	benefits, err := Load(ctx, logged(h.log, "professionals.benefits", h.src.ProBenefits.List), staticProBenefits)
	if err != nil {
		return unavailable(c)
	}
	sections, err := Load(ctx, logged(h.log, "professionals.sections", h.src.ProContent.List), staticProContent)
	if err != nil {
		return unavailable(c)
	}
	return c.JSON(professionalsView{Benefits: benefits, Sections: sections})
}
