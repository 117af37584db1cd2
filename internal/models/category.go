// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one of the fixed directory categories. Articles and listings
// reference a category by its Name.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryNames lists the seeded categories in display order. The
// categories table is populated from this list by migration and is never
// written to by the application.
var CategoryNames = []string{
	"Entrenadores",
	"Hoteles",
	"Paseadores",
	"Peluqueria",
	"Petfriendly",
	"Productos",
	"Servicios",
	"Bienestar",
	"Veterinarios",
}
