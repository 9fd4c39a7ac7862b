/*
Package screening scores payment transactions and adapts its amount limits
from reviewer feedback.

Scoring runs a fixed, ordered pipeline of rules against an incoming
transaction:

 1. IP blocklist
 2. Stolen card
 3. IP correlation (distinct IPs on the same card within the window)
 4. Region correlation (distinct regions on the same card within the window)
 5. Amount limits

Each rule may only raise the verdict (ALLOWED < MANUAL_PROCESSING <
PROHIBITED) and add reasons. The transaction is stored with its final
verdict and the reasons are reported sorted, or as "none".

Usage:

	svc := screening.NewService(history, blocklist, limits, screening.Config{}, nil)

	res, err := svc.Score(ctx, screening.TransactionInput{
	    Amount: 150,
	    IP:     "192.168.1.1",
	    Number: "4532015112830366",
	    Region: models.RegionEAP,
	    Date:   time.Now(),
	})

	tx, err := svc.ApplyFeedback(ctx, res.Transaction.ID, models.VerdictProhibited)

Feedback:

A reviewer may correct a verdict once. The correction moves the limits
towards or away from the reviewed amount using
ceil(0.8*limit ± 0.2*amount). The limits live in a threshold.Store and are
updated only after the feedback write has committed.

Error Handling:

Every error returned is an *errors.DomainError:
  - validation: malformed input
  - not_found: unknown transaction or empty card history
  - conflict: feedback already recorded
  - unprocessable_feedback: feedback equals the verdict
  - collaborator: storage or blocklist failure (retryable)
*/
package screening
