// Package utils provides conversion helpers shared by the supplier adapters.
// Distributors publish stock and prices as display text ("1,234 In Stock",
// "$0.45"); these helpers turn that text into numbers at the adapter boundary.
package utils
