// Package schema provides the embedded JSON schema for rule files.
package schema

import "embed"

// RulesFile is the name of the rule-file schema inside FS.
const RulesFile = "rules.schema.json"

// FS contains the embedded rule-file schema.
//
//go:embed rules.schema.json
var FS embed.FS
