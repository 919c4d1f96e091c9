package catalog

// Resource describes a catalog collection and how its records are addressed.
type Resource struct {
	// Name is the route segment, Mongo collection and SQL table.
	Name string
	// Singular is used in log and error messages.
	Singular string
	// SlugField is the document (and JSON) field holding the human slug id.
	SlugField string
	// SlugColumn is the SQL column holding the human slug id.
	SlugColumn string
	// Required lists the top-level fields a create payload must carry.
	Required []string
}

var Articles = Resource{
	Name:       "articles",
	Singular:   "article",
	SlugField:  "articlesId",
	SlugColumn: "articles_id",
	Required:   []string{"title", "articlesId", "thumbnail", "description", "content", "status"},
}

var Products = Resource{
	Name:       "products",
	Singular:   "product",
	SlugField:  "productsId",
	SlugColumn: "products_id",
	Required:   []string{"title", "productsId", "thumbnail", "description", "status", "paymentType"},
}
