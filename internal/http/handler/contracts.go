package handler

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/service"
)

// FieldErrors maps a request field to its validation message, mirroring the
// shape the frontend renders next to each input.
type FieldErrors map[string]string

type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AcceptTerms bool   `json:"acceptTerms"`
}

func (r *RegisterRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)

	if l := len(r.FirstName); l < 1 || l > 50 {
		errs["firstName"] = "Informe um nome entre 1 e 50 caracteres"
	}
	if l := len(r.LastName); l < 1 || l > 50 {
		errs["lastName"] = "Informe um sobrenome entre 1 e 50 caracteres"
	}
	if !validEmail(r.Email) {
		errs["email"] = "Informe um email valido"
	}
	// Upper bound is bcrypt's 72-byte input limit.
	if l := len(r.Password); l < 8 || l > 72 {
		errs["password"] = "A senha deve ter entre 8 e 72 caracteres"
	}
	if !r.AcceptTerms {
		errs["acceptTerms"] = "Voce precisa aceitar os termos"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (r *LoginRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	r.Email = strings.TrimSpace(r.Email)
	if !validEmail(r.Email) {
		errs["email"] = "Informe um email valido"
	}
	if r.Password == "" {
		errs["password"] = "Informe a senha"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type WardrobeItemRequest struct {
	Category string   `json:"category"`
	Color    string   `json:"color"`
	Material string   `json:"material"`
	Season   *string  `json:"season"`
	Tags     []string `json:"tags"`
	ImageURL *string  `json:"imageUrl"`
	Notes    *string  `json:"notes"`
}

func (r *WardrobeItemRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	r.Category = strings.TrimSpace(r.Category)
	r.Color = strings.TrimSpace(r.Color)
	r.Material = strings.TrimSpace(r.Material)

	if l := len(r.Category); l < 1 || l > 80 {
		errs["category"] = "Informe uma categoria entre 1 e 80 caracteres"
	}
	if l := len(r.Color); l < 1 || l > 50 {
		errs["color"] = "Informe uma cor entre 1 e 50 caracteres"
	}
	if l := len(r.Material); l < 1 || l > 80 {
		errs["material"] = "Informe um material entre 1 e 80 caracteres"
	}
	if r.Season != nil && !domain.ValidSeason(*r.Season) {
		errs["season"] = "Estacao invalida"
	}
	if len(r.Tags) > 20 {
		errs["tags"] = "Maximo de 20 tags"
	} else {
		for _, tag := range r.Tags {
			if t := strings.TrimSpace(tag); t == "" || len(t) > 30 {
				errs["tags"] = "Cada tag deve ter entre 1 e 30 caracteres"
				break
			}
		}
	}
	if r.ImageURL != nil {
		if u, err := url.Parse(*r.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs["imageUrl"] = "Informe uma URL valida"
		}
	}
	if r.Notes != nil {
		if l := len(strings.TrimSpace(*r.Notes)); l < 1 || l > 500 {
			errs["notes"] = "As notas devem ter entre 1 e 500 caracteres"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r *WardrobeItemRequest) apply(item *domain.WardrobeItem) {
	item.Category = r.Category
	item.Color = r.Color
	item.Material = r.Material
	item.Season = r.Season
	item.ImageURL = r.ImageURL
	item.Notes = r.Notes
	tags := make(domain.StringList, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tags = append(tags, strings.TrimSpace(tag))
	}
	item.Tags = tags
}

type StyleProfileRequest struct {
	Perception      *string `json:"perception"`
	Styles          *string `json:"styles"`
	ColorsPreferred *string `json:"colorsPreferred"`
	ColorsAvoid     *string `json:"colorsAvoid"`
	Occasions       *string `json:"occasions"`
	Formality       *string `json:"formality"`
	Silhouettes     *string `json:"silhouettes"`
	Materials       *string `json:"materials"`
	AvoidPieces     *string `json:"avoidPieces"`
}

func (r *StyleProfileRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if r.Formality != nil && !domain.ValidFormality(*r.Formality) {
		errs["formality"] = "Formalidade invalida"
	}
	for field, v := range map[string]*string{
		"perception":      r.Perception,
		"styles":          r.Styles,
		"colorsPreferred": r.ColorsPreferred,
		"colorsAvoid":     r.ColorsAvoid,
		"occasions":       r.Occasions,
		"silhouettes":     r.Silhouettes,
		"materials":       r.Materials,
		"avoidPieces":     r.AvoidPieces,
	} {
		if v != nil && len(*v) > 500 {
			errs[field] = "Maximo de 500 caracteres"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r *StyleProfileRequest) toDomain(userID string) *domain.StyleProfile {
	return &domain.StyleProfile{
		UserID:          userID,
		Perception:      r.Perception,
		Styles:          r.Styles,
		ColorsPreferred: r.ColorsPreferred,
		ColorsAvoid:     r.ColorsAvoid,
		Occasions:       r.Occasions,
		Formality:       r.Formality,
		Silhouettes:     r.Silhouettes,
		Materials:       r.Materials,
		AvoidPieces:     r.AvoidPieces,
	}
}

type StyleChatRequest struct {
	Messages []service.ChatMessage        `json:"messages"`
	Profile  *service.StyleProfilePayload `json:"profile"`
}

func (r *StyleChatRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if len(r.Messages) == 0 {
		errs["messages"] = "Envie pelo menos uma mensagem"
	}
	for _, m := range r.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			errs["messages"] = "Papel de mensagem invalido"
			break
		}
		if strings.TrimSpace(m.Content) == "" {
			errs["messages"] = "Mensagem vazia"
			break
		}
	}
	if p := r.Profile; p != nil && p.Formality != nil && !domain.ValidFormality(*p.Formality) {
		errs["profile"] = "Formalidade invalida"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validEmail(s string) bool {
	if s == "" || len(s) > 255 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
