// Package models holds the gorm row types of the order engine. Domain
// types carry no ORM tags; each model converts to and from its domain type
// with ToDomain and a FromDomain constructor.
package models
