/*
Package imagemin runs batches of files through an ordered chain of buffer
transforms and writes the results to a destination directory.

	+-----------+     +-------------+     +--------+     +-------------+     +---------+
	|   Match   | --> | Read (FS)   | --> | Chain  | --> | Sniff +     | --> | Write   |
	| (globs)   |     |             |     |        |     | Destination |     | (FS)    |
	+-----------+     +-------------+     +--------+     +-------------+     +---------+

🎯 Purpose:
- Expand input patterns into files, skipping junk such as .DS_Store
- Apply plugins (png, jpeg, ...) strictly left to right
- Place outputs flat or mirroring the source tree
- Rename outputs to .webp when a plugin produced webp content

🔄 Flow:
1. Run validates inputs and options before touching the disk
2. Match expands patterns through a storage.FileSystem
3. Every file is processed concurrently
4. The first failure cancels the batch and no results are returned

🔍 Example:

	results, err := imagemin.Run(ctx, []string{"src/images/**"}, imagemin.Options{
		Destination:       "assets/images",
		PreserveStructure: true,
		Plugins:           plugins,
		Glob:              true,
	})

Buffer applies the same chain to an in-memory blob:

	out, err := imagemin.Buffer(ctx, data, plugins)
*/
package imagemin
