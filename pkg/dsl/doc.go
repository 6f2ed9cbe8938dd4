/*
Package dsl provides a Go DSL (Domain Specific Language) for building paged forms in code.

It is the programmatic counterpart of definition files: a fluent builder that
produces the same pagedform.Blueprint, with type-checked validators and custom
page checks that files cannot express.

Example usage:

	bp, err := dsl.New("signup").
		Labels("Next", "Create account", "Back").
		Page("info").
		Title("About you").
		Email("email").Label("Email").Required().
		Select("plan", "free", "pro").Default("free").
		Page("confirm").
		Password("password").Required().
		Password("password_again").Equals("password").
		Done().
		Build()
	if err != nil {
		log.Fatal(err)
	}

	ctrl, _ := bp.Controller()
*/
package dsl
