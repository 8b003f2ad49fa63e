package storefront

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/milluces/milluces-backend/internal/banner"
	"github.com/milluces/milluces-backend/internal/category"
	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/product"
	"github.com/milluces/milluces-backend/internal/taxonomy"
)

func strPtr(s string) *string { return &s }

var staticSliders = []banner.Slider{
	{ID: "static-slider-1", Title: "Ilumina cada rincón", Subtitle: "Lámparas y focos LED para tu hogar", ImageURL: "/static/sliders/hogar.jpg", LinkURL: "/productos", ButtonText: "Ver productos", OrderIndex: 1, Active: true},
	{ID: "static-slider-2", Title: "Soluciones para profesionales", Subtitle: "Precios especiales para instaladores y estudios", ImageURL: "/static/sliders/profesionales.jpg", LinkURL: "/profesionales", ButtonText: "Saber más", OrderIndex: 2, Active: true},
}

var staticCategories = []category.Category{
	{ID: "static-cat-interior", Name: "Iluminación interior", Slug: "iluminacion-interior", Kind: category.KindTop, IconName: category.IconLightbulb, OrderIndex: 1,
		Children: []category.Category{
			{ID: "static-cat-techo", Name: "Lámparas de techo", Slug: "lamparas-de-techo", Kind: category.KindSub, ParentID: strPtr("static-cat-interior"), IconName: category.IconLamp, OrderIndex: 1},
			{ID: "static-cat-empotrables", Name: "Focos empotrables", Slug: "focos-empotrables", Kind: category.KindSub, ParentID: strPtr("static-cat-interior"), IconName: category.IconLightbulb, OrderIndex: 2},
		}},
	{ID: "static-cat-exterior", Name: "Iluminación exterior", Slug: "iluminacion-exterior", Kind: category.KindTop, IconName: category.IconSun, OrderIndex: 2, Children: []category.Category{}},
	{ID: "static-cat-material", Name: "Material eléctrico", Slug: "material-electrico", Kind: category.KindTop, IconName: category.IconPlug, OrderIndex: 3, Children: []category.Category{}},
}

var staticTerms = map[taxonomy.Kind][]taxonomy.Term{
	taxonomy.KindRoom: {
		{ID: "static-room-salon", Kind: taxonomy.KindRoom, Name: "Salón", Slug: "salon", OrderIndex: 1},
		{ID: "static-room-cocina", Kind: taxonomy.KindRoom, Name: "Cocina", Slug: "cocina", OrderIndex: 2},
		{ID: "static-room-bano", Kind: taxonomy.KindRoom, Name: "Baño", Slug: "bano", OrderIndex: 3},
		{ID: "static-room-dormitorio", Kind: taxonomy.KindRoom, Name: "Dormitorio", Slug: "dormitorio", OrderIndex: 4},
	},
	taxonomy.KindBrand: {
		{ID: "static-brand-philips", Kind: taxonomy.KindBrand, Name: "Philips", Slug: "philips", OrderIndex: 1},
		{ID: "static-brand-osram", Kind: taxonomy.KindBrand, Name: "Osram", Slug: "osram", OrderIndex: 2},
	},
	taxonomy.KindProfession: {
		{ID: "static-prof-arquitectos", Kind: taxonomy.KindProfession, Name: "Arquitectos", Slug: "arquitectos", OrderIndex: 1},
		{ID: "static-prof-interioristas", Kind: taxonomy.KindProfession, Name: "Interioristas", Slug: "interioristas", OrderIndex: 2},
		{ID: "static-prof-electricistas", Kind: taxonomy.KindProfession, Name: "Electricistas", Slug: "electricistas", OrderIndex: 3},
	},
}

var staticProducts = []product.Product{
	{ID: "static-product-1", Name: "Foco LED empotrable 7W", Slug: "foco-led-empotrable-7w", Price: decimal.RequireFromString("12.90"), Stock: 0, Featured: true, RoomIDs: []string{}, CategorySlug: "focos-empotrables", ParentCategorySlug: "iluminacion-interior"},
	{ID: "static-product-2", Name: "Lámpara colgante nórdica", Slug: "lampara-colgante-nordica", Price: decimal.RequireFromString("49.00"), Stock: 0, Featured: true, RoomIDs: []string{}, CategorySlug: "lamparas-de-techo", ParentCategorySlug: "iluminacion-interior"},
	{ID: "static-product-3", Name: "Aplique exterior IP65", Slug: "aplique-exterior-ip65", Price: decimal.RequireFromString("34.50"), Stock: 0, Featured: true, RoomIDs: []string{}, CategorySlug: "iluminacion-exterior"},
}

var staticWhyChooseUs = []content.Feature{
	{ID: "static-why-1", Title: "Asesoramiento experto", Description: "Te ayudamos a elegir la luz adecuada para cada espacio.", IconName: "lightbulb", OrderIndex: 1},
	{ID: "static-why-2", Title: "Envío en 24/48h", Description: "Recibe tu pedido rápidamente en toda la península.", IconName: "zap", OrderIndex: 2},
	{ID: "static-why-3", Title: "Garantía de calidad", Description: "Trabajamos con marcas líderes del sector.", IconName: "shield", OrderIndex: 3},
}

var staticProjects = []content.Project{
	{ID: "static-project-1", Title: "Reforma integral de vivienda", Slug: "reforma-integral-de-vivienda", Description: "Iluminación LED en toda la vivienda.", Category: "residencial", OrderIndex: 1},
	{ID: "static-project-2", Title: "Iluminación de restaurante", Slug: "iluminacion-de-restaurante", Description: "Ambientes cálidos regulables.", Category: "hosteleria", OrderIndex: 2},
}

var staticPosts = []content.Post{
	{ID: "static-post-1", Title: "Cómo elegir la temperatura de color", Slug: "como-elegir-la-temperatura-de-color", Excerpt: "Luz cálida, neutra o fría: cuándo usar cada una.", Category: "guias", PublishedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	{ID: "static-post-2", Title: "Ventajas de la iluminación LED", Slug: "ventajas-de-la-iluminacion-led", Excerpt: "Ahorro, durabilidad y menos calor.", Category: "guias", PublishedAt: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
}

var staticProBenefits = []content.Feature{
	{ID: "static-benefit-1", Title: "Descuentos profesionales", Description: "Tarifas especiales según volumen.", IconName: "wrench", OrderIndex: 1},
	{ID: "static-benefit-2", Title: "Gestor personal", Description: "Un contacto directo para tus proyectos.", IconName: "building", OrderIndex: 2},
}

var staticProContent = []content.ProSection{
	{ID: "static-pro-hero", Section: "hero", Title: "Programa para profesionales", Body: "Arquitectos, interioristas e instaladores trabajan con nosotros.", OrderIndex: 1},
}
