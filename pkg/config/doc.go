/*
Package config loads the optional minifyimg config file.

	            +-------------+
	            |   Config    |
	            |  (pointers) |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  JSON   |   |  YAML   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Reads minifyimg.json (or .yaml, .yml, .hcl) from the working directory
- Picks a parser by file extension
- Rejects unknown keys and empty values

🔄 Flow:
1. Read the file, or return an empty Config when it is optional and missing
2. Parse with the registered parser for its extension
3. Validate and normalize paths

⚡ Merge rules:
Every field is a pointer (or a nil list) so the CLI can tell "absent" from
"zero". A file value only replaces a flag the user did not pass.

🔍 Example:

	cfg, err := config.LoadOptional(ctx, config.DefaultFile)
	if err != nil {
		return err
	}
	if cfg.OutDir != nil && !flags.Changed("out-dir") {
		outDir = *cfg.OutDir
	}
*/
package config
