package descriptions

import "sort"

// Tool descriptions shown to clients, with examples of typical requests

const (
	// Document tools
	PolicyExtractPDFDescription = `Read a policy PDF and return a candidate customer record for review.

**When to use:** A new policy document arrived and its customer needs to be recorded.

**What it returns:** Name, national ID (possibly masked), plate, policy number, start and end dates (DD.MM.YYYY) and insurance type. Phone, license number and company are never read from the document and come back empty. Nothing is saved.

**Examples:**
• "Read kasko/ali-veli.pdf and show me what it found"
• "Import trafik_2024.pdf, then save it with phone 0555 123 45 67"

**Common workflows:**
1. Import: policy_extract_pdf → correct or complete fields → customer_add
2. Renewal: policy_find_documents → policy_extract_pdf → customer_update

**Notes:** A masked ID such as 1234567**** must be completed before customer_add accepts it. Files outside the import directory are rejected.`

	PolicyFindDocumentsDescription = `List policy PDFs in the import directory, optionally filtered by file name.

**When to use:** Looking for the document of a customer before importing it.

**Examples:**
• "Which policy PDFs are waiting to be imported?"
• "Find the documents with 'kasko' in their name"

**Notes:** Matching ignores case the Turkish way (ALİ, ALI and ali are the same) and every query word must appear in the file name. Hidden folders are skipped.`

	// Customer tools
	CustomerAddDescription = `Save a customer policy record.

**When to use:** After reviewing a candidate from policy_extract_pdf, or to enter a policy by hand.

**Examples:**
• "Add AYŞE KAYA, TC 12345678901, Allianz Kasko from 01.01.2024 to 01.01.2025"
• "Save the record you just extracted, company Mapfre"

**Notes:** Dates may be DD.MM.YYYY, DD/MM/YYYY, YYYY-MM-DD or Turkish text like "15 Mart 2024"; unreadable dates are stored empty. The national ID must be empty or 11 digits once spaces and * are removed.`

	CustomerUpdateDescription = `Replace every field of an existing customer record.

**When to use:** Correcting a record or recording a renewed policy.

**Examples:**
• "Update customer 12 with the new end date 01.01.2026"

**Notes:** Fields left out are cleared, so send the complete record. Use customer_list to find the id.`

	CustomerDeleteDescription = `Delete a customer record by id.

**Examples:**
• "Delete customer 7"

**Notes:** Deletion cannot be undone.`

	CustomerListDescription = `List customer records grouped by policy status.

**When to use:** Checking which policies are current, which end soon and which have ended.

**What it returns:** Three groups. Expired policies ended before today, expiring-soon policies end within the configured window (30 days by default, today included) and every other record, including those without an end date, is current.

**Examples:**
• "Which policies end this month?"
• "Show every customer named Ali"

**Notes:** The name filter ignores case the Turkish way.`

	PolicyServerInfoDescription = `Show server settings, the company list and the available tools.

**When to use:** At the start of a session, to learn the import directory and the company names to offer.`
)

// ToolInfo is the short form of a tool listed by the server info tool
type ToolInfo struct {
	Name        string
	Description string
	Usage       string
	Parameters  string
}

// Tools lists the tools in the order they are presented
var Tools = []ToolInfo{
	{
		Name:        "policy_extract_pdf",
		Description: "Read a policy PDF into a candidate record",
		Usage:       "Import a new policy document; review before saving",
		Parameters:  "path (required)",
	},
	{
		Name:        "policy_find_documents",
		Description: "List policy PDFs in the import directory",
		Usage:       "Find a document before importing it",
		Parameters:  "query (optional), limit (optional)",
	},
	{
		Name:        "customer_add",
		Description: "Save a customer policy record",
		Usage:       "Store a reviewed or hand-entered record",
		Parameters:  "full_name, national_id, phone, license_no, plate, policy_no, company, insurance_type, policy_start, policy_end",
	},
	{
		Name:        "customer_update",
		Description: "Replace every field of a record",
		Usage:       "Correct or renew a record",
		Parameters:  "id (required) plus the customer_add fields",
	},
	{
		Name:        "customer_delete",
		Description: "Delete a record",
		Usage:       "Remove a customer permanently",
		Parameters:  "id (required)",
	},
	{
		Name:        "customer_list",
		Description: "List records grouped by policy status",
		Usage:       "Review current, expiring and expired policies",
		Parameters:  "filter (optional name filter)",
	},
	{
		Name:        "policy_server_info",
		Description: "Show settings, companies and tools",
		Usage:       "Start of a session",
		Parameters:  "none",
	},
}

// ToolDescriptions maps tool names to their full descriptions
var ToolDescriptions = map[string]string{
	"policy_extract_pdf":    PolicyExtractPDFDescription,
	"policy_find_documents": PolicyFindDocumentsDescription,
	"customer_add":          CustomerAddDescription,
	"customer_update":       CustomerUpdateDescription,
	"customer_delete":       CustomerDeleteDescription,
	"customer_list":         CustomerListDescription,
	"policy_server_info":    PolicyServerInfoDescription,
}

// GetToolDescription returns the full description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
