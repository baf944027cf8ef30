package service

import (
	"context"

	"github.com/heartcraft/storefront/internal/models"
)

type ContentService interface {
	Home(ctx context.Context) *models.HomeContent
}

type contentService struct {
	home *models.HomeContent
}

func NewContentService() ContentService {
	return &contentService{home: homeContent()}
}

func (s *contentService) Home(_ context.Context) *models.HomeContent {
	return s.home
}

func homeContent() *models.HomeContent {
	return &models.HomeContent{
		Navigation: []models.NavLink{
			{Label: "Home", Href: "#home"},
			{Label: "Products", Href: "#products"},
			{Label: "Stories", Href: "#stories"},
			{Label: "Our Impact", Href: "#impact"},
			{Label: "About", Href: "#about"},
		},
		Hero: models.Hero{
			Tagline:  "Sustainable • Empowering • Meaningful",
			Title:    "Handcrafted with Purpose, Made with Love",
			Subtitle: "Every product tells a story of resilience, sustainability, and hope. Support marginalized communities while choosing eco-friendly, handmade paper products that make a difference.",
			Actions: []models.NavLink{
				{Label: "Shop Products", Href: models.RedirectCatalog},
				{Label: "Learn About Our Mission", Href: "#about"},
			},
			Stats: []models.Stat{
				{Value: "500+", Label: "Artisans Supported"},
				{Value: "10K+", Label: "Products Sold"},
				{Value: "2M+", Label: "Papers Recycled"},
			},
		},
		Stories: []models.ArtisanStory{
			{
				Name:        "Maria Rodriguez",
				Role:        "War Widow & Artisan",
				Quote:       "Creating these paper products has given me hope and a way to support my family with dignity. Every notebook I make carries my story of resilience.",
				Specialty:   "Journals & Notebooks",
				ActiveSince: "3 years",
				Impact:      "Supported 2 children through education",
			},
			{
				Name:        "James Mitchell",
				Role:        "Ex-Military Veteran",
				Quote:       "This craft has become my therapy. Working with my hands helps me find peace, and knowing my work helps others gives me purpose.",
				Specialty:   "Decorative Items",
				ActiveSince: "2 years",
				Impact:      "Built confidence and financial independence",
			},
			{
				Name:        "Community Workshop",
				Role:        "Inclusive Learning Space",
				Quote:       "Our workshop brings together individuals with different abilities, creating beautiful art while building friendships and skills.",
				Specialty:   "Collaborative Pieces",
				ActiveSince: "5 years",
				Impact:      "Empowered 50+ individuals with disabilities",
			},
		},
		Footer: models.Footer{
			Brand:   "HeartCraft",
			Tagline: "Empowering Communities",
			About:   "Creating positive social and environmental impact through handcrafted products made from recycled materials.",
			Groups: []models.LinkGroup{
				{Title: "Shop", Links: []models.NavLink{
					{Label: "All Products", Href: models.RedirectCatalog},
					{Label: "Journals & Notebooks", Href: "/products?category=Journals+%26+Notebooks"},
					{Label: "Greeting Cards", Href: "/products?category=Greeting+Cards"},
					{Label: "Decorative Items", Href: "/products?category=Decorative+Items"},
					{Label: "Gift Sets", Href: "/products?category=Gift+Sets"},
				}},
				{Title: "About", Links: []models.NavLink{
					{Label: "Our Mission", Href: "#about"},
					{Label: "Artisan Stories", Href: "#stories"},
					{Label: "Impact Report", Href: "#impact"},
					{Label: "Sustainability", Href: "#impact"},
					{Label: "Community", Href: "#stories"},
				}},
			},
			Contact: models.Contact{
				Email:   "hello@heartcraft.com",
				Phone:   "+1 (555) 123-4567",
				Address: "123 Community Street, Impact City, IC 12345",
			},
			Legal: []models.NavLink{
				{Label: "Privacy Policy", Href: "/privacy"},
				{Label: "Terms of Service", Href: "/terms"},
				{Label: "Accessibility", Href: "/accessibility"},
			},
			Copyright:  "© 2024 HeartCraft. All rights reserved.",
			Newsletter: "Stay Connected to Our Mission",
		},
	}
}
