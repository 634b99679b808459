package sample

type Address struct {
	Street string `json:"street"`
	City   string `json:"city,omitempty"`
}

type Person struct {
	Name    string            `json:"name"`
	Age     int               `json:"age"`
	Email   *string           `json:"email,omitempty"`
	Tags    []string          `json:"tags,omitempty"`
	Address *Address          `json:"address"`
	Labels  map[string]string `json:"labels,omitempty"`
	Secret  string            `json:"-"`
	hidden  bool
}

type Box[T any] struct {
	Value T `json:"value"`
}

type Holder struct {
	IntBox Box[int]    `json:"int_box"`
	StrBox Box[string] `json:"str_box"`
}

type Base struct {
	ID string `json:"id"`
}

type Derived struct {
	Base
	Extra bool `json:"extra"`
}
