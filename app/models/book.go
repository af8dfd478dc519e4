package models

import "time"

// Book is a catalogue entry owned by exactly one user.
type Book struct {
	ID        uint   `gorm:"column:book_id;primaryKey;autoIncrement"`
	Title     string `gorm:"size:255;not null"`
	Author    string `gorm:"size:255;not null"`
	Pages     int    `gorm:"not null;default:0"`
	Summary   string `gorm:"type:text"`
	Img       string `gorm:"size:1024"`
	Subject   string `gorm:"size:255"`
	UserID    uint   `gorm:"column:user_id;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookView is the public JSON shape of a book.
type BookView struct {
	BookID  uint   `json:"book_id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Pages   int    `json:"pages"`
	Summary string `json:"summary"`
	Img     string `json:"img"`
	Subject string `json:"subject"`
	UserID  uint   `json:"user_id"`
}

func (b Book) View() BookView {
	return BookView{
		BookID:  b.ID,
		Title:   b.Title,
		Author:  b.Author,
		Pages:   b.Pages,
		Summary: b.Summary,
		Img:     b.Img,
		Subject: b.Subject,
		UserID:  b.UserID,
	}
}

func BookViews(books []Book) []BookView {
	out := make([]BookView, len(books))
	for i, b := range books {
		out[i] = b.View()
	}
	return out
}
