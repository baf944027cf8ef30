package models

import "time"

type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Hero struct {
	Tagline  string    `json:"tagline"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Actions  []NavLink `json:"actions"`
	Stats    []Stat    `json:"stats"`
}

type ArtisanStory struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Quote       string `json:"quote"`
	Specialty   string `json:"specialty"`
	ActiveSince string `json:"active_since"`
	Impact      string `json:"impact"`
}

type LinkGroup struct {
	Title string    `json:"title"`
	Links []NavLink `json:"links"`
}

type Contact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Footer struct {
	Brand      string      `json:"brand"`
	Tagline    string      `json:"tagline"`
	About      string      `json:"about"`
	Groups     []LinkGroup `json:"groups"`
	Contact    Contact     `json:"contact"`
	Legal      []NavLink   `json:"legal"`
	Copyright  string      `json:"copyright"`
	Newsletter string      `json:"newsletter"`
}

type HomeContent struct {
	Navigation []NavLink      `json:"navigation"`
	Hero       Hero           `json:"hero"`
	Stories    []ArtisanStory `json:"stories"`
	Footer     Footer         `json:"footer"`
}

type NewsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type NewsletterSubscription struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
