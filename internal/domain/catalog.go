package domain

// CatalogType partitions the catalogo table into its four lookup lists.
type CatalogType string

const (
	CatalogCategoria CatalogType = "categoria"
	CatalogPrioridad CatalogType = "prioridad"
	CatalogEstado    CatalogType = "estado"
	CatalogArea      CatalogType = "area"
)

// CatalogEntry is one row of immutable reference data.
type CatalogEntry struct {
	ID   int64
	Name string
	Code string
	Type CatalogType
}
