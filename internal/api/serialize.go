package api

import (
	"net/url"
	"time"

	"github.com/wehaveweneed/exchange/internal/models"
)

// Site describes the public address used to build absolute post links.
// It is passed in explicitly rather than read from global state.
type Site struct {
	Scheme string
	Domain string
}

// CategoryPayload is the serialized form of a category
type CategoryPayload struct {
	Name string `json:"name" xml:"name"`
	Slug string `json:"slug" xml:"slug"`
}

// ContactPayload is the serialized contact view of a post's user
// reference. Organization comes from the linked profile; it is a
// separate notion from the raw contact reference itself.
type ContactPayload struct {
	FirstName    string `json:"first_name" xml:"first_name"`
	LastName     string `json:"last_name" xml:"last_name"`
	Organization string `json:"organization" xml:"organization"`
}

// PostPayload is the serialized form of a post
type PostPayload struct {
	ID        int64            `json:"id" xml:"id"`
	Type      string           `json:"type" xml:"type"`
	Title     string           `json:"title" xml:"title"`
	Location  string           `json:"location" xml:"location"`
	Priority  string           `json:"priority" xml:"priority"`
	Contact   *ContactPayload  `json:"contact" xml:"contact,omitempty"`
	Category  *CategoryPayload `json:"category" xml:"category,omitempty"`
	TimeStart time.Time        `json:"time_start" xml:"time_start"`
	TimeEnd   *time.Time       `json:"time_end" xml:"time_end,omitempty"`
	CreatedAt time.Time        `json:"created_at" xml:"created_at"`
	Content   string           `json:"content" xml:"content"`
	Link      string           `json:"link" xml:"link"`
}

// ReplyPayload is the serialized form of a reply
type ReplyPayload struct {
	ID        int64     `json:"id" xml:"id"`
	Sender    string    `json:"sender" xml:"sender"`
	CreatedAt time.Time `json:"created_at" xml:"created_at"`
	Content   string    `json:"content" xml:"content"`
}

// buildCategoryPayload builds the serialized form of a category
func buildCategoryPayload(category *models.Category) CategoryPayload {
	return CategoryPayload{
		Name: category.Name,
		Slug: category.Slug,
	}
}

// buildPostPayload builds the serialized form of a post, combining the
// site address with the post's canonical path into an absolute link
func buildPostPayload(post *models.Post, site Site) PostPayload {
	link := url.URL{
		Scheme: site.Scheme,
		Host:   site.Domain,
		Path:   post.AbsoluteURL(),
	}

	payload := PostPayload{
		ID:        post.ID,
		Type:      post.Type,
		Title:     post.Title,
		Location:  post.Location,
		Priority:  post.Priority,
		TimeStart: post.TimeStart,
		CreatedAt: post.CreatedAt,
		Content:   post.Content,
		Link:      link.String(),
	}

	if post.TimeEnd.Valid {
		end := post.TimeEnd.Time
		payload.TimeEnd = &end
	}
	if post.Category != nil {
		category := buildCategoryPayload(post.Category)
		payload.Category = &category
	}
	if post.Contact != nil {
		contact := ContactPayload{
			FirstName: post.Contact.FirstName,
			LastName:  post.Contact.LastName,
		}
		if post.Contact.Profile != nil {
			contact.Organization = post.Contact.Profile.Organization
		}
		payload.Contact = &contact
	}

	return payload
}

// buildReplyPayload builds the serialized form of a reply
func buildReplyPayload(reply *models.Reply) ReplyPayload {
	payload := ReplyPayload{
		ID:        reply.ID,
		CreatedAt: reply.CreatedAt,
		Content:   reply.Content,
	}
	if reply.Sender != nil {
		payload.Sender = reply.Sender.Username
	}
	return payload
}
