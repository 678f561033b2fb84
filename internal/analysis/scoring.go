package analysis

import "math"

// HelpfulnessScore weighs how often, how fast and how broadly an author answered.
// Frequency 40%, speed 40% (10 points lost per minute of mean delay), engagement 20%.
func HelpfulnessScore(answerCount, authorTotalMessages, totalQuestions int, meanResponseSeconds float64) int {
	if authorTotalMessages < 1 {
		authorTotalMessages = 1
	}
	frequency := math.Min(100, float64(answerCount)/float64(authorTotalMessages)*100)
	speed := math.Max(0, 100-(meanResponseSeconds/60)*10)
	engagement := 0.0
	if totalQuestions > 0 {
		engagement = float64(answerCount) / float64(totalQuestions) * 100
	}
	return clampScore(frequency*0.4 + speed*0.4 + engagement*0.2)
}

// EngagementScore weighs activity (30%), answering (25%), reply speed (25%)
// and thread participation (20%).
func EngagementScore(messagesPerHour float64, questionsAnswered int, meanGapSeconds float64, threadCount int) int {
	frequency := math.Min(100, (messagesPerHour/10)*100)
	answering := math.Min(100, float64(questionsAnswered)*10)
	speed := math.Max(0, 100-(meanGapSeconds/120)*100)
	threads := math.Min(100, (float64(threadCount)/5)*100)
	return clampScore(frequency*0.3 + answering*0.25 + speed*0.25 + threads*0.2)
}

func clampScore(v float64) int {
	rounded := int(math.Round(v))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
