package model

import "encoding/json"

type HaircutCatalogItem struct {
	ID         string
	Name       string
	PriceCents int64
	Active     bool
	UserID     string
}

type haircutWire struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Price  Price  `json:"price"`
	Status Flag   `json:"status"`
	UserID ID     `json:"user_id"`
}

func (h *HaircutCatalogItem) UnmarshalJSON(data []byte) error {
	var w haircutWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*h = HaircutCatalogItem{
		ID:         w.ID.String(),
		Name:       w.Name,
		PriceCents: w.Price.Cents(),
		Active:     bool(w.Status),
		UserID:     w.UserID.String(),
	}
	return nil
}

func (h HaircutCatalogItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(haircutWire{
		ID:     ID(h.ID),
		Name:   h.Name,
		Price:  Price(h.PriceCents),
		Status: Flag(h.Active),
		UserID: ID(h.UserID),
	})
}

type ClientRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"celular"`
	Email   string `json:"email"`
	Address string `json:"endereco"`
}

type clientWire struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"celular"`
	Email   string `json:"email"`
	Address string `json:"endereco"`
}

func (c *ClientRecord) UnmarshalJSON(data []byte) error {
	var w clientWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = ClientRecord{ID: w.ID.String(), Name: w.Name, Phone: w.Phone, Email: w.Email, Address: w.Address}
	return nil
}

// User is the signed-in barbershop owner as returned by GET /me.
type User struct {
	ID             string
	Name           string
	Email          string
	Address        string
	TelegramChatID string
	Premium        bool
}

type userWire struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"endereco"`
	TelegramChatID ID     `json:"telegramChatId"`
	Subscriptions  *struct {
		Status string `json:"status"`
	} `json:"subscriptions"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*u = User{
		ID:             w.ID.String(),
		Name:           w.Name,
		Email:          w.Email,
		Address:        w.Address,
		TelegramChatID: w.TelegramChatID.String(),
		Premium:        w.Subscriptions != nil && w.Subscriptions.Status == "active",
	}
	return nil
}
