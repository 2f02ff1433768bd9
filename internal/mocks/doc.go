// Package mocks provides hand-written test doubles for service interfaces.
// Each mock records its calls and lets a test override behaviour through
// function fields or fixed return values.
package mocks
