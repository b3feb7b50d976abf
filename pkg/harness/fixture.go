package harness

// DefineWith declares a set whose body and cases share one *F. The fixture is
// allocated when the set is constructed and dropped when it is destroyed, so
// every run starts from a zero F.
func DefineWith[F any](name string, body func(s *Set, f *F)) Definition {
	return register(declareWith(name, body))
}

func declareWith[F any](name string, body func(s *Set, f *F)) Definition {
	return Definition{
		name:    name,
		fixture: func() any { return new(F) },
		body: func(s *Set) {
			body(s, s.fixture.(*F))
		},
	}
}

// FixtureOf returns the fixture of the set running c. It returns nil when the
// set was not declared with DefineWith[F].
func FixtureOf[F any](c *C) *F {
	f, _ := c.set.fixture.(*F)
	return f
}
