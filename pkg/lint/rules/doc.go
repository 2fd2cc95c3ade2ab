// Package rules provides the built-in lint rules for gorblint.
//
// # Rules
//
//   - RB001: factory-trait-order - Traits inside a FactoryBot factory block
//     must be defined in alphabetical order. Auto-correctable: the trait
//     blocks are swapped into sorted order and everything else stays put.
//
//   - RB002: service-call-shape - Classes under the services location expose
//     exactly one class-level call method, keep a single public instance
//     call, order self.call, initialize, call, and are never instantiated
//     with .new outside their own self.call or specs.
//
// # Options
//
// RB002 reads service_paths and spec_paths (glob lists, relative to the
// working directory) and services_directory (where Admin::CreateUser is
// looked up as admin/create_user.rb; empty disables the .new check).
//
// # Registration
//
// Rules register themselves with lint.DefaultRegistry in init, together with
// their RuboCop-style aliases.
package rules
