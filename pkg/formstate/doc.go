// Package formstate tracks, per declared form field, whether the user has
// supplied a value (fill state) and whether the last validator run accepted it
// (validity). Both concerns live on a single Record per field inside a Store.
// FillTracker and ValidationTracker are thin views over the same Store; they aggregate
// per-field state into per-section and whole-form answers.
//
// Sections and fields must be declared up front. Referencing a section or a
// field that was not declared is a programmer error reported through
// UnknownSectionError / UnknownFieldError; the store never creates entries on
// demand.
package formstate
