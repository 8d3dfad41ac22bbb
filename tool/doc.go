/*
Package tool exposes host functions to the model: it describes them with a
parameter schema, keeps them in a catalog, and invokes them safely when the
model asks for it.

# Design Decisions

  - Explicit registration: every tool is declared with New and a list of
    ordered Params. No reflection over handler signatures happens at runtime;
    palaver-toolgen generates the same calls from annotated functions at build
    time.
  - Schema first: the parameter schema drives both the exported catalog and
    argument binding, so what the model is told and what the dispatcher
    accepts never drift apart.
  - Strict binding: unknown arguments, missing required arguments, values of
    the wrong type and values outside an enum reject the whole call before the
    handler runs.
  - Failures are data: the dispatcher never returns an error to the caller. Every
    failure becomes a ToolCallResult with IsError set, so the model can react.
  - Confirmation gating: tools flagged with RequiresConfirmation ask a
    Confirmer before any side effect. AsyncConfirmer suspends only the call
    awaiting an answer.

# Usage

	rotate := tool.Must("rotate_object",
		func(ctx context.Context, args tool.Args) (any, error) {
			return scene.Rotate(args.String("object"), args.Float("degrees"))
		},
		tool.Description("Rotates an object around its vertical axis"),
		tool.Params(
			tool.NewParam[string]("object", "Name of the object to rotate"),
			tool.NewParam[float64]("degrees", "Rotation in degrees").WithDefault(90),
		),
	)

	registry := tool.NewRegistry(func() []tool.Definition {
		return []tool.Definition{rotate}
	})
	dispatcher, err := tool.NewDispatcher(registry, tool.WithConfirmer(tool.DenyAll))
	if err != nil {
		return err
	}
	result := dispatcher.Execute(ctx, call)

# Thread Safety

Registry and Dispatcher are safe for concurrent use. Handlers may be invoked
concurrently through Dispatcher.Go and must synchronize their own state.
*/
package tool
