package vision

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"

	"stickcheck/internal/sideline"
)

const assessmentPromptTemplate = `
	You are an expert at identifying counterfeit hockey sticks. Analyze this listing for potential counterfeit indicators.

	**Listing Details:**
	- Title: %s
	- Price: %s
	- Description: %s
	- Seller: %s

	**Please assess the following:**

	1. **Price Analysis**: Is the price suspiciously low compared to typical market value for this stick model? Consider that used sticks should still be at least 30-50%% of retail for authentic items in good condition.

	2. **Image Quality**: Do these images look like:
	   - Stock photos copied from retail sites?
	   - Low-quality photos that hide details?
	   - Genuine product photos with actual wear/use?

	3. **Logo/Branding**: Look for:
	   - Incorrect fonts or spacing in brand names
	   - Wrong colors or proportions
	   - Missing or incorrect holographic stickers
	   - Poor print quality

	4. **Description Red Flags**: Check for:
	   - Vague or missing specifications
	   - Unusual grammar/spelling (fake sellers often have these)
	   - Claims that seem too good to be true
	   - Missing flex, curve, or hand information

	**Required Response Format (JSON only):**
	{
	  "confidence": <number 0-100 representing likelihood this is counterfeit>,
	  "reason": "<brief 1-2 sentence explanation of your assessment>"
	}

	A confidence of 0 means definitely authentic, 100 means definitely counterfeit. Score 50+ for items with significant red flags.

	Respond ONLY with the JSON object, no other text.`

// buildAssessmentPrompt fills the evaluation prompt with the listing's text
// fields. An empty description gets an explicit marker so the model doesn't
// invent one.
func buildAssessmentPrompt(listing sideline.Listing) string {
	description := listing.Description
	if description == "" {
		description = "No description provided"
	}
	return fmt.Sprintf(
		strings.TrimSpace(dedent.Dedent(assessmentPromptTemplate)),
		listing.Title,
		listing.Price,
		description,
		listing.SellerUsername,
	)
}
