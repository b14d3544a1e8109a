// Package models defines the GORM models of the parts feature.
package models
