package models

// Category is one of the fixed editorial verticals. Unique by name.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// The known verticals. The table is seeded with these, but the set is
// only enforced by the admin-gated category endpoints, not by a check
// constraint.
const (
	VerticalPoder       = "PODER"
	VerticalTributos    = "TRIBUTOS"
	VerticalSaude       = "SAUDE"
	VerticalEnergia     = "ENERGIA"
	VerticalTrabalhista = "TRABALHISTA"
)

// DummyCategory receives category data from a JSON request.
type DummyCategory struct {
	Name string `json:"name" validate:"required"`
}
