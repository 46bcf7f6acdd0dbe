package assessment

// DefaultBank returns the built-in VALID question catalog as a fresh slice.
func DefaultBank() Bank {
	b := make(Bank, len(defaultBank))
	copy(b, defaultBank)
	return b
}

var defaultBank = Bank{
	// Verity
	{ID: "v-evidence-1", Text: "I change my mind when presented with strong evidence.", Dimension: Verity, Category: "evidence"},
	{ID: "v-evidence-2", Text: "I look for data before accepting a claim as true.", Dimension: Verity, Category: "evidence"},
	{ID: "v-evidence-3", Text: "A compelling story is enough to convince me, even without facts.", Dimension: Verity, Category: "evidence", Reverse: true},
	{ID: "v-scrutiny-1", Text: "I check more than one source before sharing information.", Dimension: Verity, Category: "scrutiny"},
	{ID: "v-scrutiny-2", Text: "I enjoy testing ideas against counter-arguments.", Dimension: Verity, Category: "scrutiny"},

	// Association
	{ID: "a-peers-1", Text: "I trust information more when people close to me believe it.", Dimension: Association, Category: "peers"},
	{ID: "a-peers-2", Text: "My friends' opinions strongly shape what I consider true.", Dimension: Association, Category: "peers"},
	{ID: "a-identity-1", Text: "I am drawn to views held by groups I identify with.", Dimension: Association, Category: "identity"},
	{ID: "a-identity-2", Text: "I rarely consider who else holds a belief when I evaluate it.", Dimension: Association, Category: "identity", Reverse: true},
	{ID: "a-identity-3", Text: "Belonging to a community makes its ideas feel more credible to me.", Dimension: Association, Category: "identity"},

	// Lived experience
	{ID: "l-personal-1", Text: "What I have seen with my own eyes outweighs any report.", Dimension: LivedExperience, Category: "personal"},
	{ID: "l-personal-2", Text: "My past experiences are the best guide to what is true.", Dimension: LivedExperience, Category: "personal"},
	{ID: "l-intuition-1", Text: "I trust my gut when deciding whether something is real.", Dimension: LivedExperience, Category: "intuition"},
	{ID: "l-intuition-2", Text: "Personal anecdotes rarely influence my conclusions.", Dimension: LivedExperience, Category: "intuition", Reverse: true},
	{ID: "l-intuition-3", Text: "If something feels wrong to me, it probably is.", Dimension: LivedExperience, Category: "intuition"},

	// Institutional
	{ID: "i-authority-1", Text: "I rely on established institutions to tell me what is true.", Dimension: Institutional, Category: "authority"},
	{ID: "i-authority-2", Text: "Official statements carry significant weight with me.", Dimension: Institutional, Category: "authority"},
	{ID: "i-credentials-1", Text: "Credentials and expertise make a claim more believable.", Dimension: Institutional, Category: "credentials"},
	{ID: "i-credentials-2", Text: "Experts are often no more reliable than anyone else.", Dimension: Institutional, Category: "credentials", Reverse: true},
	{ID: "i-credentials-3", Text: "Peer-reviewed or certified sources settle questions for me.", Dimension: Institutional, Category: "credentials"},

	// Desire
	{ID: "d-values-1", Text: "I tend to believe things that align with my values.", Dimension: Desire, Category: "values"},
	{ID: "d-values-2", Text: "Ideas that support what I care about feel more convincing.", Dimension: Desire, Category: "values"},
	{ID: "d-hope-1", Text: "I believe outcomes I hope for are more likely than they are.", Dimension: Desire, Category: "hope"},
	{ID: "d-hope-2", Text: "Whether I want something to be true has no effect on my judgment.", Dimension: Desire, Category: "hope", Reverse: true},
	{ID: "d-hope-3", Text: "I find it hard to accept news I do not want to hear.", Dimension: Desire, Category: "hope"},

	// Quality control
	{ID: FirstAttentionCheckID, Text: "To show you are reading carefully, please select 4 (Neutral).", Dimension: AttentionCheck, Category: "attention", CorrectAnswer: intPtr(4)},
	{ID: SecondAttentionCheckID, Text: "Please select 1 (Strongly disagree) for this statement.", Dimension: AttentionCheck, Category: "attention", CorrectAnswer: intPtr(1)},
	{ID: "sd-1", Text: "I have never been annoyed when someone disagreed with me.", Dimension: SocialDesirability, Category: "desirability"},
	{ID: "sd-2", Text: "I always admit my mistakes immediately.", Dimension: SocialDesirability, Category: "desirability"},
	{ID: "sd-3", Text: "I have never told a lie, even a small one.", Dimension: SocialDesirability, Category: "desirability"},
}
