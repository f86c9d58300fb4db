package models

// Profile is the optional contact data stored per user.
type Profile struct {
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"required,email"`
}

// Credential pairs a username with its password hash.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// Theme holds the display colors of a session.
type Theme struct {
	BgColor     string `json:"bg_color" validate:"omitempty,hexcolor"`
	FgColor     string `json:"fg_color" validate:"omitempty,hexcolor"`
	CardColor   string `json:"card_color" validate:"omitempty,hexcolor"`
	ButtonColor string `json:"button_color" validate:"omitempty,hexcolor"`
}

// DefaultTheme returns the colors a new session starts with.
func DefaultTheme() Theme {
	return Theme{
		BgColor:     "#ffffff",
		FgColor:     "#000000",
		CardColor:   "#f0f0f0",
		ButtonColor: "#007bff",
	}
}

// Merge returns t with every non-empty field of update applied.
func (t Theme) Merge(update Theme) Theme {
	if update.BgColor != "" {
		t.BgColor = update.BgColor
	}
	if update.FgColor != "" {
		t.FgColor = update.FgColor
	}
	if update.CardColor != "" {
		t.CardColor = update.CardColor
	}
	if update.ButtonColor != "" {
		t.ButtonColor = update.ButtonColor
	}
	return t
}
