/*
Package runner runs paged forms in a terminal.

The Runner renders each page as a series of prompts, turns the answers back
into request keys and feeds them to a fresh controller, exactly like an HTTP
round trip. Prompts go through a PromptDriver: SurveyDriver for real
terminals, or any scripted implementation in tests.

# Usage

	r := runner.New(runner.NewSurveyDriver(),
		runner.WithRenderer(tui.NewRenderer()),
		runner.WithStore(store),
	)

	res, err := r.Run(ctx, blueprint)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("saved", res.Submission.ID)

Every value typed by the user passes through SanitizeInput, which is also used
by the HTTP adapter for submitted form values.
*/
package runner
