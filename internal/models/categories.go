package models

// Categoria is a web learning topic understood by the backend.
type Categoria struct {
	ID    int
	Label string
}

var Categorias = []Categoria{
	{1, "Bombas"},
	{2, "Motores"},
	{3, "Compresores"},
	{4, "Generadores"},
}

// CategoriaLabel returns the label of a known category id.
func CategoriaLabel(id int) (string, bool) {
	for _, c := range Categorias {
		if c.ID == id {
			return c.Label, true
		}
	}
	return "", false
}
