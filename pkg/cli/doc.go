/*
Package cli provides command-line interface utilities for Crosswind.

The cli package includes output formatters, typed command errors, and
signal handling used by the crosswind command.

Output Formatting:

Command results render as text or JSON, selected by a --format flag:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Errors:

Commands wrap failures in typed errors so the root command can report
them uniformly:

	if err := config.Initialize(path); err != nil {
		return cli.NewConfigError("", err.Error())
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
