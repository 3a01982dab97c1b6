package catalog

// Seed identifiers of the education topics that cannot be deleted.
const (
	TopicForexBasics       = "forex-basics"
	TopicTechnicalAnalysis = "technical-analysis"
	TopicRiskManagement    = "risk-management"
)

// IsProtectedTopic reports whether id names a seed topic.
func IsProtectedTopic(id string) bool {
	switch id {
	case TopicForexBasics, TopicTechnicalAnalysis, TopicRiskManagement:
		return true
	}
	return false
}

// suggestedIDOffset separates the suggested identity space from the owned
// seed prompts they mirror.
const suggestedIDOffset = 4

func seedTemplates() []Prompt {
	return []Prompt{
		{
			Title:       "Trend Analysis",
			Category:    "Trend Analysis",
			Description: trendAnalysisText,
			IsFavorite:  true,
			Tags:        []string{"Trend Analysis"},
			UsageCount:  15,
			CreatedAt:   "2024-01-15",
			UpdatedAt:   "2024-01-20",
		},
		{
			Title:       "Support and Resistance Levels",
			Category:    "Support and Resistance Levels",
			Description: supportResistanceText,
			IsFavorite:  false,
			Tags:        []string{"Support and Resistance Levels"},
			UsageCount:  8,
			CreatedAt:   "2024-01-10",
			UpdatedAt:   "2024-01-18",
		},
		{
			Title:       "Strongs Lows",
			Category:    "Strongs Lows",
			Description: strongLowsText,
			IsFavorite:  true,
			Tags:        []string{"Strongs Lows"},
			UsageCount:  12,
			CreatedAt:   "2024-01-12",
			UpdatedAt:   "2024-01-19",
		},
		{
			Title:       "Strong Highs",
			Category:    "Strong Highs",
			Description: strongHighsText,
			IsFavorite:  false,
			Tags:        []string{"Strong Highs"},
			UsageCount:  6,
			CreatedAt:   "2024-01-08",
			UpdatedAt:   "2024-01-16",
		},
	}
}

// SeedPrompts returns the owned collection used when nothing was persisted.
// Each seed is already linked to its suggested counterpart.
func SeedPrompts() []Prompt {
	prompts := seedTemplates()
	for i := range prompts {
		prompts[i].ID = i + 1
		prompts[i].SuggestedID = i + 1 + suggestedIDOffset
	}
	return prompts
}

// SeedSuggested returns the read-only suggested templates.
func SeedSuggested() []Prompt {
	prompts := seedTemplates()
	for i := range prompts {
		prompts[i].ID = i + 1 + suggestedIDOffset
	}
	return prompts
}

// SeedTopics returns the default education topics.
func SeedTopics() []Topic {
	return []Topic{
		{ID: TopicForexBasics, Title: "Forex Market Basics", Content: forexBasicsContent},
		{ID: TopicTechnicalAnalysis, Title: "Technical Analysis", Content: technicalAnalysisContent},
		{ID: TopicRiskManagement, Title: "Risk Management", Content: riskManagementContent},
	}
}

const trendAnalysisText = `Analyze the trend of [INSTRUMENT] and determine if it is trending upwards, downwards, or consolidating. Consider various factors such as price action, moving averages, and other technical indicators to assess the trend. # Steps 1. **Analyze Price Action:** Examine the recent price movements of [INSTRUMENT]. Look for patterns such as higher highs and higher lows (uptrend), lower highs and lower lows (downtrend), or sideways movement (consolidation). 2. **Evaluate Moving Averages:** Use moving averages (e.g., 50-day, 200-day) to identify the trend. * If the price is consistently above the moving average, it suggests an uptrend. * If the price is consistently below the moving average, it suggests a downtrend. * If the price is fluctuating around the moving average, it indicates consolidation. 3. **Consider Other Technical Indicators:** Use additional indicators such as the Relative Strength Index (RSI) or Moving Average Convergence Divergence (MACD) to confirm the trend. * RSI values above 70 may indicate overbought conditions (potential downtrend or consolidation). * RSI values below 30 may indicate oversold conditions (potential uptrend or consolidation). * MACD crossovers can signal potential trend changes. 4. **Determine the Trend:** Based on the analysis of price action, moving averages, and technical indicators, determine whether the [INSTRUMENT] is in an uptrend, downtrend, or consolidation phase. # Output Format A single sentence in Polish stating whether the [INSTRUMENT] is in an uptrend, downtrend, or consolidation phase. # Examples N/A (The model should perform a real-time analysis to determine the current trend.) # Notes The model should access real-time or near real-time market data to provide an accurate assessment of the current trend. The response should be concise and directly answer the question. # Notes The response should be in Polish.`

const supportResistanceText = `Analyze a given [INSTRUMENT] to identify and explain the strongest support and resistance levels. Consider historical price data, trading volume, and significant price movements to determine key support and resistance levels for the specified [INSTRUMENT]. Explain the reasoning behind each identified level. # Steps 1. **Data Analysis:** Analyze historical price charts for the [INSTRUMENT], focusing on identifying areas where the price has consistently reversed direction. 2. **Volume Consideration:** Examine trading volume at potential support and resistance levels. Higher volume confirms the strength of these levels. 3. **Identification of Support Levels:** Identify price levels where the [INSTRUMENT] has consistently found buying support, preventing further price declines. 4. **Identification of Resistance Levels:** Identify price levels where the [INSTRUMENT] has consistently faced selling pressure, preventing further price increases.5. **Reasoning:** Provide clear explanations for why each identified level is considered strong support or resistance, referencing historical price action and volume. 6. **Output:** Provide the support and resistance levels with explanations. # Output Format The output should be a concise paragraph in Polish, identifying key support and resistance levels for the [INSTRUMENT], along with a brief explanation of why these levels are significant. # Examples **Example 1:** **Input:** 'WHERE ARE THE STRONGEST SUPPORT AND RESISTANCE LEVELS FOR THE [INSTRUMENT]?' **Output:** 'Silne wsparcie dla [INSTRUMENT] znajduje się w okolicach [support level], gdzie historycznie obserwowano zwiększony popyt. Opór występuje w pobliżu [resistance level], co wynika z wcześniejszych reakcji cenowych i zwiększonej presji sprzedaży w tym obszarze.' (Note: Real examples would include specific price levels like '0.9000' or '0.9150' in place of the bracketed placeholders.)' The response should be in Polish.`

const strongLowsText = `Find the four most recent 'strong lows' for [INSTRUMENT]. You will need to analyze [INSTRUMENT] data to identify these points. # Steps 1. **Define 'strong lows':** Establish a clear, consistent definition of what constitutes a 'strong low.' This may involve factors like: * Significant price decrease followed by a substantial price increase. * Volume during the low.* Confirmation by technical indicators. 2. **Data Analysis:** Analyze [INSTRUMENT] historical price data. 3. **Identification:** Identify potential 'strong low' candidates based on your definition. 4. **Verification:** Verify that each candidate meets all criteria for a 'strong low.' 5. **Selection:** Select the four most recent verified 'strong lows.' # Output Format List the four most recent 'strong lows' for [INSTRUMENT], including the date and price for each. Output as a numbered list. 1. [Data: YYYY-MM-DD], [Cena: X.XXXX] 2. [Data: YYYY-MM-DD], [Cena: X.XXXX] 3. [Data: YYYY-MM-DD], [Cena: X.XXXX] 4. [Data: YYYY-MM-DD], [Cena: X.XXXX] # Notes * The definition of 'strong low' is critical. Ensure it is precise and consistently applied. * Specify the data source used for analysis. * Consider providing a brief explanation of why each identified low qualifies as a 'strong low' based on your criteria. (This can be added as an extra field in the output) * This prompt relies on your ability to interpret financial data and apply technical analysis techniques. * The level of precision needed for the date and price. The response should be in Polish.`

const strongHighsText = `Find the four most recent 'strong highs' for [INSTRUMENT]. You will need to analyze [INSTRUMENT] data to identify these points. # Steps 1. **Define 'strong highs' :** Establish a clear, consistent definition of what constitutes a 'strong highs.' This may involve factors like: * Significant price decrease followed by a substantial price increase. * Volume during the low. * Confirmation by technical indicators. 2. **Data Analysis:** Analyze [INSTRUMENT] historical price data. 3. **Identification:** Identify potential 'strong highs' candidates based on your definition. 4. **Verification:** Verify that each candidate meets all criteria for a 'strong highs.' 5. **Selection:** Select the four most recent verified 'strong highs.' # Output Format List the four most recent 'strong highs' for [INSTRUMENT], including the date and price for each. Output as a numbered list. 1. [Data: YYYY-MM-DD], [Cena: X.XXXX] 2. [Data: YYYY-MM-DD], [Cena: X.XXXX] 3. [Data: YYYY-MM-DD], [Cena: X.XXXX] 4. [Data: YYYY-MM-DD], [Cena: X.XXXX] # Notes * The definition of 'strong highs' is critical. Ensure it is precise and consistently applied. * Specify the data source used for analysis. * Consider providing a brief explanation of why each identified low qualifies as a 'strong highs' based on your criteria. (This can be added as an extra field in the output) * This prompt relies on your ability to interpret financial data and apply technical analysis techniques. * The level of precision needed for the date and price. The response should be in Polish.`

const forexBasicsContent = `<h3>Understanding Currency Pairs</h3>
<p>Currency pairs are the foundation of forex trading. Each pair consists of a base currency and a quote currency.</p>
<h4>Major Currency Pairs:</h4>
<ul>
<li><strong>EUR/USD</strong> - Euro vs US Dollar (Most traded pair)</li>
<li><strong>GBP/USD</strong> - British Pound vs US Dollar</li>
<li><strong>USD/JPY</strong> - US Dollar vs Japanese Yen</li>
<li><strong>AUD/USD</strong> - Australian Dollar vs US Dollar</li>
</ul>
<h4>Market Sessions:</h4>
<ul>
<li><strong>Asian Session</strong> - 12:00 AM - 9:00 AM GMT</li>
<li><strong>European Session</strong> - 8:00 AM - 5:00 PM GMT</li>
<li><strong>American Session</strong> - 1:00 PM - 10:00 PM GMT</li>
</ul>`

const technicalAnalysisContent = `<h3>Key Technical Indicators</h3>
<h4>Trend Indicators:</h4>
<ul>
<li><strong>Moving Averages</strong> - Simple (SMA) and Exponential (EMA)</li>
<li><strong>MACD</strong> - Moving Average Convergence Divergence</li>
<li><strong>ADX</strong> - Average Directional Index</li>
</ul>
<h4>Momentum Indicators:</h4>
<ul>
<li><strong>RSI</strong> - Relative Strength Index (14-period)</li>
<li><strong>Stochastic</strong> - %K and %D oscillator</li>
<li><strong>Williams %R</strong> - Momentum oscillator</li>
</ul>
<h4>Support and Resistance:</h4>
<p>Key levels where price tends to reverse or consolidate. These can be:</p>
<ul>
<li>Previous highs and lows</li>
<li>Fibonacci retracement levels</li>
<li>Psychological round numbers</li>
<li>Moving average levels</li>
</ul>`

const riskManagementContent = `<h3>Essential Risk Management Rules</h3>
<h4>Position Sizing:</h4>
<ul>
<li><strong>1% Rule</strong> - Never risk more than 1% of account per trade</li>
<li><strong>2% Rule</strong> - Maximum 2% for experienced traders</li>
<li><strong>Kelly Criterion</strong> - Mathematical approach to position sizing</li>
</ul>
<h4>Stop Loss Strategies:</h4>
<ul>
<li><strong>Technical Stops</strong> - Based on support/resistance levels</li>
<li><strong>Percentage Stops</strong> - Fixed percentage from entry</li>
<li><strong>ATR Stops</strong> - Based on Average True Range</li>
<li><strong>Time Stops</strong> - Exit after specific time period</li>
</ul>
<h4>Risk-Reward Ratios:</h4>
<ul>
<li><strong>1:2 Minimum</strong> - Risk $1 to make $2</li>
<li><strong>1:3 Preferred</strong> - Higher probability of long-term success</li>
<li><strong>Win Rate vs RR</strong> - Balance between accuracy and reward</li>
</ul>`
