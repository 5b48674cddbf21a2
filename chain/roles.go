package chain

// Output keys of the built-in roles.
const (
	KeyThread        = "thread"
	KeyHook          = "hook"
	KeyPrompt        = "prompt"
	KeyImage         = "img"
	KeyThreadStarter = "threadStarter"
	KeyMidjourney    = "midj"
)

// Input variables of the built-in roles.
const (
	VarNoteStructure = "noteStructure"
	VarNotes         = "mdNotes"
	VarSubject       = "subject"
	VarCustomer      = "customer"
)

// DefaultNoteStructure is the aspect of the notes the thread should preserve.
const DefaultNoteStructure = "tone, voice, vocabulary and sentence structure"

const threadoorTemplate = `
### Instructions ###
- You are writing agent that doesn't use exclamation points, hashtags or emojis.
- Paraphrase the main points and ideas of the notes as a Twitter thread.
- Highlight each of the key concepts from the notes in each tweet.
- Break the content into smaller and digestible tweets.
- Write clear and concise tweets for each point without altering the original meaning.
- Ensure a logical flow and coherence in the Twitter thread while maintaining the {noteStructure} of the notes.
Markdown Notes: {mdNotes}
Twitter thread:
`

const hookoorTemplate = `
Role: You are a content writing agent that uses a given Twitter thread to construct an engaging introductory tweet that does not contain any exclamation marks or hashtags.
Goal: Create 3 short introductory tweets based on the Twitter thread using persuasive writing style.
Formula: Problem: (Name the problem), Steps: (Pinpoint actionable steps), Output: (Celebrate outcome)
Twitter Thread: {thread}
Introductory Tweet:
`

const headlineTemplate = `
Role Description: You are a content writing agent that uses the main ideas from a given Twitter thread to generate a headliner.
The 5 elements of writing an effective headline are: Be CLEAR, not Clever, Specify the WHAT, Specify the WHY, throw a curve ball.
The 6 proven ways to write an engaging headline: Open with 1 strong, declarative sentence, Open with a thought-provoking question, Open with a controversial opinion, Open with a moment in time, Open with a vulnerable statement
Goal: Take all five elements of effective headline writing and one of the six proven ways to write an engaging headline and create three headlines that reflect the Twitter thread provided
Twitter Thread: {thread}
Headlines:
`

const promptoorTemplate = `
Role: You are an agent who writes descriptive short text phrases which will used to generate images.
Format: Scene: (cyberpunk scene we are depicting), Keywords: (5 descriptive keywords related to robotics, ai, normcore and cyberpunk), Art Style: (famous art style), Artist: (famous japanese manga artist name), Medium: (art medium)
Goal: Using the Format, create a 60 word short text phrase depicting a futuristic scene based on the theme of the Twitter Thread.
Twitter Thread: {thread}
Generated text phrase:
`

const threadStarterTemplate = `
You are a expert writer with over 10 years of experience writing content online. Your tone is sarcastic. Given the subject being discussed and the ideal customer persona it is your objective to write a single Twitter Thread starter tweet to engage with potential customer for a topic within a specific niche to get them to read the Twitter thread

Subject: {subject}
Ideal Customer Persona: {customer}
Engaging Tweet: This is the Twitter Thread Starter Tweet for the above criteria:
`

const midjourneyTemplate = `
I want you to act as a prompt generator for Midjourney's artificial intelligence program. Your job is to provide detailed and creative descriptions that will inspire unique and interesting images from the AI based on the overarching theme of the tweet. Keep in mind that the AI is capable of understanding a wide range of language and can interpret abstract concepts, so feel free to be as imaginative and descriptive as possible. For example, you could describe a scene from a futuristic city, or a surreal landscape filled with strange creatures. The more detailed and imaginative your description, the more interesting the resulting image will be. Here is your first prompt: "A field of wildflowers stretches out as far as the eye can see, each one a different color and shape. In the distance, a massive tree towers over the landscape, its branches reaching up to the sky like tentacles."

Twitter Thread Starter:
{threadStarter}

Midjourney prompt based on the thread above:
`

// ThreadRoles returns the notes-to-thread sequence: thread, hook, image prompt, image.
func ThreadRoles() []Role {
	return []Role{
		{
			Name:           "threadoor",
			Template:       threadoorTemplate,
			InputVariables: []string{VarNoteStructure, VarNotes},
			OutputKey:      KeyThread,
		},
		{
			Name:           "hookoor",
			Template:       hookoorTemplate,
			InputVariables: []string{KeyThread},
			OutputKey:      KeyHook,
		},
		{
			Name:           "promptoor",
			Template:       promptoorTemplate,
			InputVariables: []string{KeyThread},
			OutputKey:      KeyPrompt,
		},
		{
			Name:           "imgGenoor",
			Template:       "{prompt}",
			InputVariables: []string{KeyPrompt},
			OutputKey:      KeyImage,
			Image:          true,
		},
	}
}

// HeadlineRole is an alternative hook role that writes three headlines.
func HeadlineRole() Role {
	return Role{
		Name:           "hookoor",
		Template:       headlineTemplate,
		InputVariables: []string{KeyThread},
		OutputKey:      KeyHook,
	}
}

// StarterRoles returns the subject-to-thread-starter sequence.
func StarterRoles() []Role {
	return []Role{
		{
			Name:           "threadStarter",
			Template:       threadStarterTemplate,
			InputVariables: []string{VarSubject, VarCustomer},
			OutputKey:      KeyThreadStarter,
		},
		{
			Name:           "midj",
			Template:       midjourneyTemplate,
			InputVariables: []string{KeyThreadStarter},
			OutputKey:      KeyMidjourney,
		},
	}
}

// ReplaceRole returns a copy of roles with every role writing r.OutputKey replaced by r.
func ReplaceRole(roles []Role, r Role) []Role {
	out := make([]Role, len(roles))
	for i, role := range roles {
		if role.OutputKey == r.OutputKey {
			role = r
		}
		out[i] = role
	}
	return out
}

// WithoutImageRoles returns roles minus those that run on the image model.
func WithoutImageRoles(roles []Role) []Role {
	out := make([]Role, 0, len(roles))
	for _, role := range roles {
		if !role.Image {
			out = append(out, role)
		}
	}
	return out
}
