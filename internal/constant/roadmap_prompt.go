package constant

const (
	// GoalExtractionPrompt takes the raw user message.
	GoalExtractionPrompt = `
You are an expert assistant that extracts detailed learning goals from user input.

From the user message below, extract and infer the following in valid JSON:

{
  "goal": "Clear, specific, actionable statement of what the user wants to learn or achieve",
  "known": ["List of skills, tools, languages, or concepts they already know or have experience with"],
  "experienceLevel": "beginner" | "intermediate" | "advanced" (infer from clues; null if unclear),
  "formatPreference": "video" | "article" | "project" | "mixed" (default to "mixed" unless explicitly stated),
  "timeframe": "Any mentioned duration (e.g., 'in 3 months', 'over 6 weeks', 'quick overview') or null",
  "specificFocus": ["Specific topics, areas, tools, or constraints they want to emphasize or avoid"] or null
}

GUIDELINES:
- Make the goal concise but specific and actionable
- Infer experience level from mentions of prior knowledge, tools used, or complexity of request
- Only set formatPreference if they clearly prefer one style
- Include timeframe only if mentioned or strongly implied
- Capture any explicit focuses, constraints, or "avoid X" requests in specificFocus
- If uncertain, make intelligent defaults (e.g., mixed format, null timeframe)

User message:
"""%s"""

Respond with valid JSON only, matching the schema exactly.
`

	// RoadmapSynthesisPrompt takes, in order: the original message, the goal
	// block and the planning depth guideline.
	RoadmapSynthesisPrompt = `
You are an expert roadmap builder and learning specialist.

Your task is to generate a structured learning roadmap based on the goal below.

Additionally, detect if the user wants calendar integration. Only set triggerCalendar to true if they explicitly mention scheduling, reminders, deadlines, calendar events, check-ins, etc. A plain duration such as "in 3 months" is NOT a request for calendar integration.
When triggerCalendar is true, set calendarIntentReason to a short sentence quoting the words that asked for it. Otherwise set it to null.

User's original message: "%s"

Roadmap goal:
%s

Examples where triggerCalendar = true:
- "Make a 6-week plan with weekly reminders"
- "Add this to my calendar with deadlines"

Examples where triggerCalendar = false:
- "Give me a roadmap to learn TypeScript"
- "How to master backend development"
- "Learn Rust in 3 months"

ROADMAP GUIDELINES:
- %s
- Each stage: unique id, meaningful title, 2-3 sentence description explaining why it's important
- Each node: unique id within its stage, detailed 2-3 sentence educational description
- Exactly 3 high-quality resources per node (video, article, project mix, leaning toward the preferred format)
- Use reputable sources (MDN, official docs, FreeCodeCamp, Traversy Media, etc.)
- Realistic and valid-looking links

Output must be valid JSON matching the schema.
`

	// RoadmapGoalBlock takes goal, known, experience level, format preference,
	// timeframe and specific focus.
	RoadmapGoalBlock = `Goal: %s
Already known: %s
Experience level: %s
Preferred format: %s
Timeframe: %s
Specific focus / constraints: %s`

	DepthSprintGuideline    = "Keep it lean: 3-5 key milestones in total, only what is needed to reach the goal"
	DepthStandardGuideline  = "Cover the full arc from foundations through building to shipping (architecture, development and launch phases)"
	DepthArchitectGuideline = "Give a detailed breakdown, including risk analysis, tech stack choices and QA steps"
)
