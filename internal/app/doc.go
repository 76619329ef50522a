// Package app is the application layer — the only component that references
// multiple domain components. It orchestrates all use cases: booking
// lifecycle, order lifecycle with inventory policy, magic-link auth,
// storefront content, and the admin back office.
package app
