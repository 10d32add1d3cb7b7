package cache

import "fmt"

const TestsPattern = "tests:*"

func TestListKey() string {
	return "tests:list"
}

func TestKey(testID uint, withQuestions bool) string {
	if withQuestions {
		return fmt.Sprintf("tests:%d:full", testID)
	}
	return fmt.Sprintf("tests:%d", testID)
}

func QuestionCountKey(testID uint) string {
	return fmt.Sprintf("tests:%d:count", testID)
}
