package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL        string
	apiKey         string
	apiSecret      string
	customDocTypes []string
	http           *http.Client
}

func NewClient(baseURL, apiKey, apiSecret string, customDocTypes []string) *Client {
	return &Client{
		baseURL:        baseURL,
		apiKey:         apiKey,
		apiSecret:      apiSecret,
		customDocTypes: customDocTypes,
		http:           &http.Client{Timeout: 15 * time.Second},
	}
}

// BaseURL is the ERP server the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FindCustomers returns customers whose mobile_no equals mobile exactly.
// Reference: GET /api/resource/Customer?filters=[["mobile_no","=",...]]
func (c *Client) FindCustomers(ctx context.Context, mobile string) ([]Customer, error) {
	var customers []Customer
	err := c.list(ctx, "listCustomers", "Customer", []Filter{Eq("mobile_no", mobile)}, customerFields, &customers)
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// CustomerAddress returns the customer's address, preferring the primary one
// when several are linked. Returns nil when no address is linked.
func (c *Client) CustomerAddress(ctx context.Context, cust Customer) (*Address, error) {
	var addresses []Address
	if err := c.list(ctx, "listAddresses", "Address", LinkedTo(cust.Name), addressFields, &addresses); err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, nil
	}
	for i := range addresses {
		if cust.PrimaryAddress != "" && addresses[i].Name == cust.PrimaryAddress {
			return &addresses[i], nil
		}
	}
	return &addresses[0], nil
}

// LinkedDocuments lists documents of docType linked to the customer and then
// fetches each one in full.
func (c *Client) LinkedDocuments(ctx context.Context, docType, customerID string) ([]Document, error) {
	var refs []struct {
		Name string `json:"name"`
	}
	if err := c.list(ctx, "listLinked", docType, LinkedTo(customerID), []string{"name"}, &refs); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(refs))
	for _, ref := range refs {
		doc, err := c.GetDocument(ctx, docType, ref.Name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetDocument fetches a single document by its identifier.
// Reference: GET /api/resource/{DocType}/{name}
func (c *Client) GetDocument(ctx context.Context, docType, name string) (Document, error) {
	path := "/api/resource/" + url.PathEscape(docType) + "/" + url.PathEscape(name)
	var doc Document
	if err := c.get(ctx, "getDocument", path, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) list(ctx context.Context, op, docType string, filters []Filter, fields []string, out any) error {
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}

	q := url.Values{}
	q.Set("filters", string(filtersJSON))
	q.Set("fields", string(fieldsJSON))
	return c.get(ctx, op, "/api/resource/"+url.PathEscape(docType), q, out)
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Authorization", "token "+c.apiKey+":"+c.apiSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: string(body)}
	}

	env := resourceEnvelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", op, err)
	}
	return nil
}
