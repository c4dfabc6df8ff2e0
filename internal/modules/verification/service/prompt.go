package service

import "fmt"

func trickPrompt(sport, trick string) string {
	return fmt.Sprintf(`
Role: action sports coach and judge for %[1]s.
The rider says this clip shows a "%[2]s" on a %[1]s.

1. Check the equipment. If the rider is not on a %[1]s, landed is false and the
   feedback says which sport you saw instead.
2. Check the trick. If it is a different trick than "%[2]s", landed is false and
   the feedback explains the difference.
3. Landed means riding away. A fall, a hand or foot down, or slipping out right
   away is not landed. Sketchy but riding away counts.
4. Rate the execution from 1 to 10:
   1-3 failed or wrong sport, 4-5 sketchy, 6-7 clean, 8-9 great, 10 pro level.

Answer with JSON only, no markdown:
{"landed": boolean, "rating": number, "trickDetected": string, "feedback": string, "confidence": number}
`, sport, trick)
}

func challengePrompt(title, description string) string {
	return fmt.Sprintf(`
Role: action sports judge.
Watch the whole clip and decide whether the rider completes this challenge.
If the attempt is slightly sketchy but meets the description, it is completed.

Challenge: "%s"
Description: "%s"

Answer with JSON only, no markdown:
{"completed": boolean, "reasoning": string}
`, title, description)
}
