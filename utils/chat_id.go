package utils

// ChatID derives the deterministic id of a 1:1 chat: the two participant
// ids sorted lexicographically and joined with an underscore. Both
// participants can compute it independently without a lookup.
func ChatID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "_" + userB
}
