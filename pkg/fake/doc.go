// Package fake produces synthetic benchmark data.
//
// Generation is rule based: a [Faker] holds one [Rule] per field, and each rule
// is a plain function over a [Source]. Applying all rules to a zero value
// yields one instance. Fields without a rule keep their zero value, so ids are
// never populated here; they are assigned by the persistence layer.
//
// Reference data (countries and tags) is produced by [Countries] and [Tags].
// Company graphs are produced by [RelationalBuilder] and [DocumentBuilder],
// which draw country and tag references from an already seeded
// [models.Catalog] instead of package state.
package fake
