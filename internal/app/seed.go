package app

import "immobot/internal/domain"

// SeedProperties are written to an empty store so the bot can always answer.
func SeedProperties() []domain.Property {
	return []domain.Property{
		{
			ID:        "prop_001",
			Rooms:     domain.NewNumber(2),
			Price:     domain.NewNumber(4500),
			Currency:  "MAD",
			City:      "Casablanca",
			Available: true,
			Address: domain.Localized{
				"fr": "12 Rue des Fleurs, Maârif, Casablanca",
				"en": "12 Flowers Street, Maarif, Casablanca",
				"ar": "12 شارع الزهور، المعاريف، الدار البيضاء",
				"da": "12 zan9at lwrod, Maarif, Casablanca",
			},
			Amenities: domain.LocalizedList{
				"fr": {"Wifi", "Climatisation", "Cuisine équipée"},
				"en": {"Wifi", "Air conditioning", "Equipped kitchen"},
				"ar": {"واي فاي", "تكييف", "مطبخ مجهز"},
				"da": {"Wifi", "Climatiseur", "Kozina mjehza"},
			},
			Photos: []string{"photo1.jpg", "photo2.jpg"},
			Description: domain.Localized{
				"fr": "Bel appartement lumineux proche du tramway.",
				"en": "Bright, pleasant flat close to the tramway.",
				"ar": "شقة جميلة ومشرقة قريبة من الترامواي.",
				"da": "Appartement zwin w fih do, 9rib mn tramway.",
			},
			Agent:     domain.NewAgentRef(1),
			CreatedAt: "2024-01-15T10:00:00",
		},
		{
			ID:        "prop_002",
			Rooms:     domain.NewNumber(3),
			Price:     domain.NewNumber(7000),
			Currency:  "MAD",
			City:      "Rabat",
			Available: true,
			Address: domain.Localized{
				"fr": "45 Avenue Mohammed V, Agdal, Rabat",
				"en": "45 Mohammed V Avenue, Agdal, Rabat",
				"ar": "45 شارع محمد الخامس، أكدال، الرباط",
				"da": "45 chari3 Mohammed V, Agdal, Rabat",
			},
			Amenities: domain.LocalizedList{
				"fr": {"Parking", "Ascenseur", "Balcon"},
				"en": {"Parking", "Elevator", "Balcony"},
				"ar": {"موقف سيارات", "مصعد", "شرفة"},
				"da": {"Parking", "Ascenseur", "Balcon"},
			},
			Photos: []string{"photo3.jpg", "photo4.jpg"},
			Description: domain.Localized{
				"fr": "Grand appartement familial dans un quartier calme.",
				"en": "Large family flat in a quiet neighbourhood.",
				"ar": "شقة عائلية كبيرة في حي هادئ.",
				"da": "Appartement kbir l3a2ila f hay hadi.",
			},
			Agent:     domain.NewAgentRef(2),
			CreatedAt: "2024-01-16T09:30:00",
		},
	}
}
