package section

import "github.com/google/uuid"

// DefaultTemplateType 是新建网站默认使用的整页模板。
const DefaultTemplateType = "travel-tour"

type obj = map[string]any

var defaultSectionData = map[Type]Data{
	TypeNavbar: {
		"logo":    "/images/travel-tour-img/logo.svg",
		"tabLogo": "",
		"title":   "Travel Tour",
		"links": []any{
			obj{"text": "Home", "url": "#"},
			obj{"text": "About", "url": "#about"},
			obj{"text": "Services", "url": "#services"},
			obj{"text": "Tours", "url": "#tours"},
			obj{"text": "Contact", "url": "#contact"},
		},
		"socialLinks": []any{
			obj{"icon": "twitter", "url": "https://twitter.com"},
			obj{"icon": "facebook", "url": "https://facebook.com"},
			obj{"icon": "instagram", "url": "https://instagram.com"},
		},
		"backgroundColor": "#ffffff",
	},
	TypeHero: {
		"backgroundImage":   "/images/travel-tour-img/main.jpeg",
		"backgroundOpacity": 0.7,
		"title":             "Explore the World",
		"subtitle":          "Discover amazing places",
		"paragraphs":        []any{"Start your journey today with our exclusive tour packages."},
		"ctaButtons": []any{
			obj{"text": "View Tours", "url": "#tours", "variant": "default"},
			obj{"text": "Learn More", "url": "#about", "variant": "outline"},
		},
	},
	TypeAbout: {
		"image": "/images/travel-tour-img/about.jpeg",
		"title": "About Us",
		"paragraphs": []any{
			"We are a premier travel agency with over 10 years of experience.",
			"Our team of experts will help you plan the perfect vacation.",
			"We offer personalized itineraries and 24/7 support during your trip.",
		},
		"backgroundColor": "#f9f9f9",
	},
	TypeServices: {
		"backgroundImage": "/images/travel-tour-img/services-bg.jpeg",
		"title":           "Our Services",
		"subtitle":        "What We Offer",
		"services": []any{
			obj{"icon": "map", "title": "Guided Tours", "description": "Expert guides to show you around."},
			obj{"icon": "hotel", "title": "Premium Accommodation", "description": "Stay in luxury hotels."},
			obj{"icon": "car", "title": "Transportation", "description": "Comfortable transportation options."},
			obj{"icon": "utensils", "title": "Local Cuisine", "description": "Experience authentic local food."},
		},
		"backgroundColor": "#ffffff",
	},
	TypeFeaturedTours: {
		"title":    "Featured Tours",
		"subtitle": "Popular Destinations",
		"tours": []any{
			obj{"image": "/images/travel-tour-img/tour-1.jpeg", "title": "Paris Adventure", "description": "Explore the city of love.", "price": "$1,299", "duration": "7 days", "url": "/tours/paris"},
			obj{"image": "/images/travel-tour-img/tour-2.jpeg", "title": "Tokyo Express", "description": "Discover the bustling metropolis.", "price": "$1,899", "duration": "10 days", "url": "/tours/tokyo"},
			obj{"image": "/images/travel-tour-img/tour-3.jpeg", "title": "Bali Retreat", "description": "Relax on pristine beaches.", "price": "$999", "duration": "5 days", "url": "/tours/bali"},
		},
		"backgroundColor": "#f5f5f5",
	},
	TypeFooter: {
		"backgroundColor": "#222831",
		"logo":            "/images/travel-tour-img/logo.svg",
		"links": []any{
			obj{"title": "Company", "items": []any{
				obj{"text": "About", "url": "/about"},
				obj{"text": "Team", "url": "/team"},
				obj{"text": "Careers", "url": "/careers"},
				obj{"text": "Privacy Policy", "url": "/privacy"},
			}},
			obj{"title": "Support", "items": []any{
				obj{"text": "FAQ", "url": "/faq"},
				obj{"text": "Contact", "url": "/contact"},
				obj{"text": "Live Chat", "url": "#"},
			}},
			obj{"title": "Destinations", "items": []any{
				obj{"text": "Europe", "url": "/destinations/europe"},
				obj{"text": "Asia", "url": "/destinations/asia"},
				obj{"text": "Africa", "url": "/destinations/africa"},
				obj{"text": "Americas", "url": "/destinations/americas"},
			}},
		},
		"socialLinks": []any{
			obj{"icon": "twitter", "url": "https://twitter.com"},
			obj{"icon": "facebook", "url": "https://facebook.com"},
			obj{"icon": "instagram", "url": "https://instagram.com"},
		},
		"copyright": "© 2023 Travel Tour. All rights reserved.",
	},
}

// DefaultData 返回某类型区块默认数据的深拷贝。
func DefaultData(t Type) (Data, error) {
	data, ok := defaultSectionData[t]
	if !ok {
		return nil, ErrUnknownSectionType
	}
	return CloneData(data), nil
}

// NewID 生成区块 id。
func NewID() string {
	return uuid.NewString()
}

// FreshSections 按默认顺序生成一整套模板区块，用于尚无任何区块的网站。
func FreshSections(newID func() string) []Section {
	if newID == nil {
		newID = NewID
	}
	sections := make([]Section, 0, len(allTypes))
	for i, t := range allTypes {
		data, _ := DefaultData(t)
		sections = append(sections, Section{
			ID:    newID(),
			Type:  t,
			Order: float64(i),
			Data:  data,
		})
	}
	return sections
}
