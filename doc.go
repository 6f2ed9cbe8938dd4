/*
Package pagedform splits a long form into an ordered sequence of pages and drives
the user through them one request at a time.

Every request carries the key of the page that was on screen, its live fields,
the serialized values of every other page (as hidden fields) and a navigation
control. A Controller reads all of that, moves forward or backward, validates
the pages up to the one it is about to show and either completes the form or
returns the next page to render.

# Concept

Pages only know how to read, validate, serialize and render their own fields.
Navigation lives in the controller, which hands each page a namespace at
registration so request keys never collide:

	<form>:page              the page that was on screen
	<form>:<page>:<field>    a field of a page
	__submit__ / __back__    navigation controls

The controller holds no state between requests. Transports build a fresh one
per request from a Blueprint, which is immutable and safe to share.

# Usage

	bp := pagedform.NewBlueprint("signup",
		pagedform.PageSpec{Key: "info", New: func() domain.Page {
			return page.New(page.WithField(page.Field{Name: "email", Type: schema.Email(), Required: true}))
		}},
		pagedform.PageSpec{Key: "confirm", New: func() domain.Page {
			return page.New(page.WithField(page.Field{Name: "password", Widget: render.WidgetPassword, Required: true}))
		}},
	)

	ctrl, err := bp.Controller()
	if err != nil {
		log.Fatal(err)
	}
	if _, err := ctrl.ReadFromRequest(ctx, reader); err != nil {
		log.Fatal(err)
	}
	if ctrl.IsComplete() {
		// persist ctrl.Values()
	}
	form, err := ctrl.Form()

Definition files (YAML or JSON) and the fluent builder in pkg/dsl produce the
same Blueprint.
*/
package pagedform
