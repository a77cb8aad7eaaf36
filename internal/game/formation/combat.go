package formation

// Effect is the side effect of an allowed attack
type Effect string

const (
	NoEffect       Effect = ""
	Push           Effect = "push"
	FormationBreak Effect = "formation_break"
)

// CombatResult is the verdict of CombatModifier
type CombatResult struct {
	CanAttack bool
	Reason    string
	Effect    Effect
}

type pairing struct{ attacker, defender Kind }

var advantages = map[pairing]string{
	{Wedge, ShieldWall}:      "Wedge breaks through Shield Wall",
	{ShieldWall, Line}:       "Shield Wall holds against Line",
	{Line, Column}:           "Line outflanks narrow Column",
	{Column, Wedge}:          "Column's depth beats scattered Wedge",
	{HollowSquare, Skirmish}: "Square catches scattered Skirmish",
	{Skirmish, Line}:         "Skirmish harasses static Line",
}

// Advantage describes the edge attacker holds over defender, if any
func Advantage(attacker, defender Kind) (string, bool) {
	s, ok := advantages[pairing{attacker, defender}]
	return s, ok
}

// CombatModifier decides whether an attack from one formation into another
// may proceed. attackers counts the pieces bearing on the target; a shield
// wall shrugs off a lone melee attacker unless the attack comes from a
// wedge. Skirmishers cannot be hit by ranged fire. Columns push.
func CombatModifier(attacker, defender Kind, ranged bool, attackers int) CombatResult {
	res := CombatResult{CanAttack: true}

	if defender == ShieldWall {
		if attacker == Wedge {
			res.Effect = FormationBreak
		} else if attackers < 2 && !ranged {
			res.CanAttack = false
			res.Reason = "Shield Wall requires 2+ attackers or ranged fire"
		}
	}

	if defender == Skirmish && ranged {
		res.CanAttack = false
		res.Reason = "Skirmish formation too spread out for ranged fire"
	}

	if attacker == Column {
		res.Effect = Push
	}
	return res
}
