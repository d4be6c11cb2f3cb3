package model

// Variable is a model that represents a configuration placeholder.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
