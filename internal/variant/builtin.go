package variant

import "github.com/sitecraft/internal/section"

type obj = map[string]any

func heroVariants() []Variant {
	buttons := func(primary, primaryURL, secondary, secondaryURL string) []any {
		return []any{
			obj{"text": primary, "url": primaryURL, "variant": "default"},
			obj{"text": secondary, "url": secondaryURL, "variant": "outline"},
		}
	}

	return []Variant{
		{
			ID:           OriginalID,
			Type:         section.TypeHero,
			Name:         "Original Hero",
			Description:  "The classic travel-tour hero section",
			PreviewImage: "/images/travel-tour-img/main.jpeg",
			Component:    "hero/original",
			Editor:       heroFields,
			defaults: section.Data{
				"backgroundImage":   "/images/travel-tour-img/main.jpeg",
				"backgroundOpacity": 0.7,
				"title":             "Explore the World",
				"subtitle":          "Discover Amazing Places",
				"paragraphs":        []any{"Start your journey today with our exclusive tour packages."},
				"ctaButtons":        buttons("View Tours", "#tours", "Learn More", "#about"),
			},
		},
		{
			ID:           "default",
			Type:         section.TypeHero,
			Name:         "Classic Hero",
			Description:  "Full-width hero with background image and call-to-action buttons",
			PreviewImage: "/templates/hero-default.jpg",
			Component:    "hero/default",
			Editor:       heroFields,
			defaults: section.Data{
				"backgroundImage":   "/images/travel-tour-img/main.jpeg",
				"backgroundOpacity": 0.7,
				"title":             "Explore the World",
				"subtitle":          "Discover Amazing Places",
				"paragraphs": []any{
					"Start your journey today with our exclusive tour packages and create memories that last a lifetime.",
				},
				"ctaButtons": buttons("View Tours", "#tours", "Learn More", "#about"),
			},
		},
		{
			ID:           "video",
			Type:         section.TypeHero,
			Name:         "Video Hero",
			Description:  "Dynamic hero with video background for maximum impact",
			PreviewImage: "/templates/hero-video.jpg",
			Component:    "hero/video",
			Editor:       append(append([]Field(nil), heroFields...), videoFields...),
			defaults: section.Data{
				"backgroundImage":   "/images/travel-tour-img/hero-video-thumb.jpg",
				"backgroundOpacity": 0.5,
				"title":             "Adventures Await",
				"subtitle":          "Immerse Yourself in New Experiences",
				"paragraphs": []any{
					"Let our stunning destinations inspire your next adventure with breathtaking views and unforgettable experiences.",
				},
				"ctaButtons":     buttons("Start Exploring", "#tours", "Watch Video", "#"),
				"videoUrl":       "https://storage.googleapis.com/coverr-main/mp4/Mt_Baker.mp4",
				"videoThumbnail": "/images/travel-tour-img/hero-video-thumb.jpg",
			},
		},
	}
}

func aboutVariants() []Variant {
	member := func(name, role string) obj {
		return obj{"name": name, "role": role, "image": "/images/travel-tour-img/about.jpeg"}
	}

	return []Variant{
		{
			ID:           OriginalID,
			Type:         section.TypeAbout,
			Name:         "Original About",
			Description:  "The classic travel-tour about section",
			PreviewImage: "/images/travel-tour-img/about.jpeg",
			Component:    "about/original",
			Editor:       aboutFields,
			defaults: section.Data{
				"image": "/images/travel-tour-img/about.jpeg",
				"title": "About Us",
				"paragraphs": []any{
					"We are a premier travel agency with over 10 years of experience.",
					"Our team of experts will help you plan the perfect vacation.",
					"We offer personalized itineraries and 24/7 support during your trip.",
				},
				"backgroundColor": "#f8fafc",
			},
		},
		{
			ID:           "default",
			Type:         section.TypeAbout,
			Name:         "Standard About",
			Description:  "Clean and professional about section with image and text",
			PreviewImage: "/templates/about-default.jpg",
			Component:    "about/default",
			Editor:       aboutFields,
			defaults: section.Data{
				"image": "/images/travel-tour-img/about.jpeg",
				"title": "About Our Travel Company",
				"paragraphs": []any{
					"We're a premier travel agency with over 10 years of experience creating memorable journeys.",
					"Our team of experts will help you plan the perfect vacation tailored to your preferences.",
					"We offer personalized itineraries and 24/7 support during your trip for peace of mind.",
				},
				"backgroundColor": "#f9f9f9",
			},
		},
		{
			ID:           "team",
			Type:         section.TypeAbout,
			Name:         "Team About",
			Description:  "Showcase your expert team members",
			PreviewImage: "/templates/about-team.jpg",
			Component:    "about/team",
			Editor:       append(append([]Field(nil), aboutFields...), teamFields...),
			defaults: section.Data{
				"image": "/images/travel-tour-img/about-team.jpeg",
				"title": "Meet Our Expert Team",
				"paragraphs": []any{
					"Our passionate team of travel specialists is dedicated to creating unforgettable experiences.",
					"With decades of combined experience and local expertise, we'll help you discover hidden gems and iconic destinations alike.",
				},
				"backgroundColor": "#fff7ed",
				"teamMembers": []any{
					member("Sarah Johnson", "Travel Director"),
					member("David Chen", "Destination Expert"),
					member("Maria Rodriguez", "Customer Experience"),
				},
			},
		},
	}
}
