package dto

// CatalogEntryResponse is one lookup row.
type CatalogEntryResponse struct {
	CatalogoID int64  `json:"catalogo_id"`
	Nombre     string `json:"nombre"`
	Codigo     string `json:"codigo"`
}

// CatalogsResponse groups the four lookup lists. Lists are always present,
// empty rather than null when a catalog has no rows.
type CatalogsResponse struct {
	Categorias  []CatalogEntryResponse `json:"categorias"`
	Prioridades []CatalogEntryResponse `json:"prioridades"`
	Estados     []CatalogEntryResponse `json:"estados"`
	Areas       []CatalogEntryResponse `json:"areas"`
}
