package erp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FindCustomerByMobile looks up a customer by exact mobile number and renders
// the reply text. Every failure is turned into display text.
func (c *Client) FindCustomerByMobile(ctx context.Context, mobile string) string {
	customers, err := c.FindCustomers(ctx, mobile)
	if err != nil {
		log.Printf("erp: customer query for %s failed (%s): %v", mobile, Classify(err), err)
		return UserMessage(err)
	}
	if len(customers) == 0 {
		return fmt.Sprintf("❌ No customer found with mobile number %s.", mobile)
	}
	if len(customers) > 1 {
		log.Printf("erp: %d customers share mobile %s, using %s", len(customers), mobile, customers[0].Name)
	}
	cust := customers[0]

	var (
		g            errgroup.Group
		addressBlock string
		customBlocks = make([][]string, len(c.customDocTypes))
	)

	g.Go(func() error {
		addr, err := c.CustomerAddress(ctx, cust)
		if err != nil {
			log.Printf("erp: address fetch for %s failed: %v", cust.Name, err)
			addressBlock = AddressFetchFailed
			return nil
		}
		addressBlock = FormatAddress(addr)
		return nil
	})

	for i, docType := range c.customDocTypes {
		g.Go(func() error {
			docs, err := c.LinkedDocuments(ctx, docType, cust.Name)
			if err != nil {
				log.Printf("erp: %s fetch for %s failed: %v", docType, cust.Name, err)
				customBlocks[i] = []string{fmt.Sprintf("⚠️ %s details could not be retrieved.", docType)}
				return nil
			}
			for _, doc := range docs {
				body, ok := FormatCustomDocument(doc, AllowedCustomFields)
				if !ok {
					continue
				}
				header := "📄 *" + docType + "*"
				if name := valueString(doc["name"]); name != "" {
					header += " (" + name + ")"
				}
				customBlocks[i] = append(customBlocks[i], header+"\n"+body)
			}
			return nil
		})
	}

	// goroutines only report through the captured variables
	_ = g.Wait()

	sections := []string{customerHeader(cust), addressBlock}
	for _, blocks := range customBlocks {
		sections = append(sections, blocks...)
	}
	return strings.Join(sections, "\n\n")
}

func customerHeader(cust Customer) string {
	name := cust.CustomerName
	if name == "" {
		name = cust.Name
	}
	lines := []string{
		"👤 *Customer Found*",
		"",
		"*Name:* " + name,
		"*Mobile:* " + cust.MobileNo,
		"*Customer ID:* " + cust.Name,
	}
	return strings.Join(lines, "\n")
}
