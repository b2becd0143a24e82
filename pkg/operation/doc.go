/*
Package operation runs one documentation mirror from fetch to deploy.

	+---------+    +-----------+    +---------+    +-----------+    +--------+
	|  fetch  | -> | transform | -> |  index  | -> | changelog | -> | deploy |
	| (remote)|    |  (tree)   |    | (index) |    |  (status) |    |(deploy)|
	+---------+    +-----------+    +---------+    +-----------+    +--------+

🎯 Purpose:
- Owns the temporary workspace holding the fetched tree and the staging tree
- Keeps the target untouched until staging is complete and the comparison succeeded
- Reports every classified file through the console logger

⚡ Failure handling:
- A missing source subtree aborts before anything is staged
- A failed comparison aborts before the target is changed
- Deployment is delete-then-copy and is not atomic

🔍 Example:

	report, err := operation.Mirror(ctx, operation.Options{
		Config: cfg,
		Target: "docs/home-assistant",
	})
	if err != nil {
		return err
	}
	fmt.Print(string(report.Changelog.Render()))
*/
package operation
