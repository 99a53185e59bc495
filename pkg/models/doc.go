// Package models defines the entities shared by every benchmark target.
//
// The same four entities are modelled twice, once per access pattern under test:
//
//   - Relational shape ([Company], [Address]): normalized rows with foreign keys.
//     Addresses are owned rows referencing their company and one [Country];
//     companies and [Tag]s are joined through the company_tags table.
//   - Document shape ([CompanyDocument], [AddressDocument]): a company is a single
//     document with its addresses embedded and its tags referenced by id.
//     [CompanyDocument.CountryIDs] derives the distinct country ids used to
//     resolve countries when a query includes them.
//
// [Country] and [Tag] are reference entities. They are seeded once per benchmark
// session and never modified afterwards. The seeded sets, with the ids the
// persistence layer assigned to them, are captured in a [Catalog] which is passed
// explicitly to the data generators.
//
// Ids are always assigned by the persistence layer. Freshly generated entities
// carry zero ids.
package models
