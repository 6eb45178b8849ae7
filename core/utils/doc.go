// Package utils provides small helpers shared by the collaborators and the row codec:
// converting untyped API values to text and inspecting spreadsheet cells.
package utils
