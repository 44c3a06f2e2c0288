package prompt

import "text/template"

// templates is the single dispatch table from action to prompt.
var templates = map[Action]*template.Template{
	BudgetSummary:    mustParse("budget-summary", budgetSummaryTmpl),
	SpendingInsights: mustParse("spending-insights", spendingInsightsTmpl),
	GoalPlanning:     mustParse("goal-planning", goalPlanningTmpl),
	InvestmentAdvice: mustParse("investment-advice", investmentAdviceTmpl),
	FreeformQuestion: mustParse("question", freeformQuestionTmpl),
	MarketNews:       mustParse("market-news", marketNewsTmpl),
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

const budgetSummaryTmpl = `
As a personal finance advisor, create a detailed budget summary for this user.

User type: {{.UserType}}
Age group: {{.AgeGroup}}
Income range: {{.IncomeRange}}

Financial Data:
- Monthly Income: {{.Currency}}{{.Income}}
- Total Expenses: {{.Currency}}{{.TotalExpenses}}
- Savings: {{.Currency}}{{.Savings}}
- Savings Rate: {{.SavingsRate}}

Expense Breakdown:
{{.ExpensesJSON}}

Goals: {{.GoalList}}
Risk Tolerance: {{.RiskTolerance}}

Provide:
1. Budget health assessment
2. Savings rate analysis
3. Personalized recommendations based on user type and goals
4. Action items for improvement

Adjust your communication style for this user type: {{.UserType}}.
`

const spendingInsightsTmpl = `
Analyze the spending patterns of this user and provide actionable insights.

User type: {{.UserType}}
Age group: {{.AgeGroup}}

Monthly Income: {{.Currency}}{{.Income}}
Total Expenses: {{.Currency}}{{.TotalExpenses}}
Expense Breakdown:
{{.ExpensesJSON}}

Provide:
1. Spending pattern analysis
2. Areas where they're overspending
3. Cost-cutting suggestions specific to their lifestyle
4. Optimization recommendations
5. Benchmark comparisons for their demographic

Communicate in a tone appropriate for this user type: {{.UserType}}.
`

const goalPlanningTmpl = `
Create a personalized financial goal plan for this user.

User type: {{.UserType}}
Risk tolerance: {{.RiskTolerance}}

Profile:
{{.ProfileJSON}}

Financial Data:
{{.FinancialsJSON}}
{{if .Goals}}
Selected goals:
{{range .Goals}}- {{.}}
{{end}}
For each selected goal above, provide:
1. Recommended monthly allocation
2. Timeline to achieve
3. Investment strategy based on risk tolerance ({{.RiskTolerance}})
4. Specific action steps
{{else}}
Selected goals: no goals selected

Suggest up to three goals suited to this profile, and for each provide:
1. Recommended monthly allocation
2. Timeline to achieve
3. Investment strategy based on risk tolerance ({{.RiskTolerance}})
4. Specific action steps
{{end}}
Adjust complexity and terminology for this user type: {{.UserType}}.
`

const investmentAdviceTmpl = `
Provide investment advice for this user.

User type: {{.UserType}}
- Available monthly savings: {{.Currency}}{{.Savings}}
- Risk tolerance: {{.RiskTolerance}}
- Age group: {{.AgeGroup}}
- Income range: {{.IncomeRange}}
- Goals: {{.GoalList}}

Recommend:
1. Asset allocation strategy
2. Specific investment products suitable for the {{.Market}} market
3. SIP recommendations
4. Tax-saving investments
5. Emergency fund planning

Use terminology and complexity appropriate for this user type: {{.UserType}}.
`

const freeformQuestionTmpl = `
You are a personal finance advisor. Respond to the user's question with personalized advice.

User Profile:
{{.ProfileJSON}}

Financial Data:
{{.FinancialsJSON}}

User's Question: {{.Question}}

Provide advice that is:
1. Personalized to their profile and financial situation
2. Appropriate for their user type ({{.UserType}})
3. Considers their risk tolerance ({{.RiskTolerance}}) and goals ({{.GoalList}})
4. Uses appropriate complexity level for their demographic
5. Includes specific actionable steps

Adjust your communication style and terminology for this user type: {{.UserType}}.
`

const marketNewsTmpl = `
Give me {{.Headlines}} latest {{.Market}} stock market news headlines that are relevant for personal finance decisions.
Focus on news that might impact individual investors and their portfolio decisions.
Format each as a brief, informative headline on its own line.
`
