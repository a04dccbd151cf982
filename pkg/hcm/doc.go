// Package hcm implements hierarchical causal models (Weinstein and Blei):
// models with unit-level variables and subunit-level variables repeated
// within each unit.
//
// [Collapse] turns a [Model] into a flat mixed graph over unit variables,
// replacing each subunit variable by a unit-level Q variable that summarizes
// its mechanism. The collapsed graph can be handed to the identification
// engines. [Augment] and [Marginalize] rewrite a collapsed model around a
// new variable standing for a function of existing ones.
package hcm
