package llm

const plausibilityPrompt = `You are a common-sense plausibility checker. Judge how plausible the following factual claim is on its own, without any other context.

Score the claim from 0.0 to 1.0:
- 1.0: obviously true for a typical reader (e.g. "water is liquid")
- 0.5: uncertain, depends on context, or cannot be judged
- 0.0: contradicts everyday knowledge (e.g. "the sky is green")

Respond ONLY with a JSON object. No markdown, no explanation. Example:
{"score":0.2,"note":"Value is an uncommon color for the sky."}

Leave "note" empty when the claim is unremarkable.

Claim:
%s`
