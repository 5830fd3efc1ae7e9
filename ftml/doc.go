// Package ftml implements FlexTag Markup Language: a human-editable
// configuration format with a tokenizer, document parser, comment
// attacher, schema parser, type registry, validator, value-tree
// reconciler, and serializer.
//
// Parse a document with [Load] (or [ParseDocument] alone if comments
// aren't needed), then extract its host-facing value tree
// with [ToValueTree]:
//
//	doc, errs := Load(src)
//	tree := ToValueTree(doc)
//
// Validate a value tree against a schema parsed with [ParseSchema]:
//
//	reg := DefaultRegistry()
//	schema, err := ParseSchema(schemaSrc, reg)
//	errs := ValidateDocument(reg, schema, tree, DefaultValidateConfig())
//
// After a host mutates the value tree, [Reconcile] merges it back into a
// fresh [Document] that keeps comments on every key that survived the
// mutation, and [Serialize] renders that document back to source text:
//
//	tree.Set("name", NewString("updated"))
//	out := Serialize(Reconcile(tree), DefaultSerializeConfig())
//
// [Config] bundles the package's configuration surface (strictness,
// comment preservation, default application, version checking, and
// serializer formatting) with CLI flag integration via
// [github.com/spf13/pflag] and shell completion support via
// [github.com/spf13/cobra]:
//
//	cfg := ftml.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
package ftml
