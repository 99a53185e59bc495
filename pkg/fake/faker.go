package fake

// Rule populates one field of a T.
type Rule[T any] struct {
	Field string
	Apply func(src *Source, target *T)
}

// Field builds a Rule from a setter and a value function.
//
//	fake.Field("Name", func(c *models.Company, v string) { c.Name = v }, (*fake.Source).CompanyName)
func Field[T, V any](name string, set func(*T, V), gen func(*Source) V) Rule[T] {
	return Rule[T]{
		Field: name,
		Apply: func(src *Source, target *T) {
			set(target, gen(src))
		},
	}
}

// Faker generates instances of T by applying its rules in order.
type Faker[T any] struct {
	src   *Source
	rules []Rule[T]
}

// NewFaker returns a Faker without rules that draws from src.
func NewFaker[T any](src *Source) *Faker[T] {
	return &Faker[T]{src: src}
}

// RuleFor adds rule, replacing an existing rule for the same field in place.
func (f *Faker[T]) RuleFor(rule Rule[T]) *Faker[T] {
	for i := range f.rules {
		if f.rules[i].Field == rule.Field {
			f.rules[i] = rule
			return f
		}
	}
	f.rules = append(f.rules, rule)
	return f
}

// Fields returns the ruled field names in rule order.
func (f *Faker[T]) Fields() []string {
	names := make([]string, len(f.rules))
	for i, r := range f.rules {
		names[i] = r.Field
	}
	return names
}

// Generate returns exactly one instance.
func (f *Faker[T]) Generate() T {
	var v T
	for _, r := range f.rules {
		r.Apply(f.src, &v)
	}
	return v
}

// GenerateN returns n independently generated instances.
func (f *Faker[T]) GenerateN(n int) []T {
	if n < 0 {
		n = 0
	}
	out := make([]T, n)
	for i := range out {
		out[i] = f.Generate()
	}
	return out
}

// GenerateBetween returns a uniformly chosen count in [min, max] of
// independently generated instances.
func (f *Faker[T]) GenerateBetween(min, max int) []T {
	return f.GenerateN(f.src.Between(min, max))
}
