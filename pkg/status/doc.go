/*
Package status compares a deployed documentation tree with a freshly staged one
and renders the changelog for the run.

	+-----------+     +-----------+
	|  target   |     |  staging  |
	| (deployed)|     |   (new)   |
	+-----+-----+     +-----+-----+
	      |                 |
	      +-------+---------+
	              |
	        +-----+-----+
	        |   Diff    |  added / modified / removed
	        +-----+-----+
	              |
	        +-----+-----+
	        | Changelog |  initial / no changes / update
	        +-----------+

🎯 Purpose:
- Classify every regular file by comparing size, then SHA-256
- Optionally count changed lines of modified files
- Render the changelog document

🔍 Example:

	cl, err := status.Generate(ctx, target, staging, status.GenerateOptions{
		IndexFile:     "CLAUDE.md",
		ChangelogFile: "CHANGELOG.md",
		Limit:         10,
	})
	if err != nil {
		return err
	}
	err = cl.Write(target, "CHANGELOG.md")
*/
package status
