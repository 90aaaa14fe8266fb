package payment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lms/config"
	"lms/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client talks to the payment provider's REST API to create checkout
// sessions for wallet top-ups
type Client struct {
	http       *resty.Client
	successURL string
	cancelURL  string
}

// NewClient builds a provider client from the loaded configuration
func NewClient() *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(config.AppConfig.StripeApiURL).
			SetAuthToken(config.AppConfig.StripeSecretKey),
		successURL: config.AppConfig.StripeSuccessURL,
		cancelURL:  config.AppConfig.StripeCancelURL,
	}
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type customerResponse struct {
	ID string `json:"id"`
}

// CreateCheckoutSession opens a provider checkout for the given top-up
// amount and returns the redirect URL. The session carries the user id in
// its metadata so the webhook can credit the right wallet, and reuses the
// user's provider customer id, creating one on first use.
func (c *Client) CreateCheckoutSession(db *gorm.DB, userID uint, amount decimal.Decimal, currency string) (string, error) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return "", err
	}

	customerID, err := c.ensureCustomer(db, &user)
	if err != nil {
		return "", err
	}

	currency = strings.ToLower(currency)
	form := map[string]string{
		"customer":                             customerID,
		"mode":                                 "payment",
		"success_url":                          c.successURL,
		"cancel_url":                           c.cancelURL,
		"client_reference_id":                  uuid.NewString(),
		"payment_method_types[0]":              "card",
		"line_items[0][quantity]":              "1",
		"line_items[0][price_data][currency]":  currency,
		"line_items[0][price_data][unit_amount]": strconv.FormatInt(ToMinorUnits(amount, currency), 10),
		"line_items[0][price_data][product_data][name]": "Wallet top-up",
		"metadata[userId]":          strconv.FormatUint(uint64(userID), 10),
		"metadata[transactionType]": "TOP_UP",
	}

	var session sessionResponse
	resp, err := c.http.R().
		SetFormData(form).
		SetResult(&session).
		Post("/checkout/sessions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("provider rejected checkout session: %s", resp.Status())
	}
	if session.URL == "" {
		return "", errors.New("provider returned no checkout URL")
	}

	return session.URL, nil
}

// ensureCustomer returns the user's provider customer id, creating and
// caching one the first time the user tops up
func (c *Client) ensureCustomer(db *gorm.DB, user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	var customer customerResponse
	resp, err := c.http.R().
		SetFormData(map[string]string{
			"email": user.Email,
			"name":  user.Name,
		}).
		SetResult(&customer).
		Post("/customers")
	if err != nil {
		return "", err
	}
	if resp.IsError() || customer.ID == "" {
		return "", fmt.Errorf("provider customer creation failed: %s", resp.Status())
	}

	if err := db.Model(user).Update("stripe_customer_id", customer.ID).Error; err != nil {
		return "", err
	}
	user.StripeCustomerID = customer.ID
	return customer.ID, nil
}
