package reasoning

// SystemPrompt instructs the reasoning model to think inside the reasoning span and
// answer in \boxed{} format right after it.
const SystemPrompt = "You are a helpful assistant. Return your final answer in \\boxed{} format. " +
	"Only think within the <think></think> tags. " +
	"As soon as the </think> tag is reached, stop thinking and reply only with the answer in \\boxed{} format. " +
	"Any answers that do not immediately return in the \\boxed{} format after the <think></think> tags " +
	"will be discarded and penalized."

// UserPrefix introduces the problem text in the user message.
const UserPrefix = "Please solve the following problem:\n"

// Prefills and system prompt suffixes of each variant.
const (
	DefaultPrefill = "<think>\n"
	NoCoTPrefill   = "<think>\nThinking is disabled, proceed to answer portion.</think>\n<｜end▁of▁thinking｜>\n"
	ClosingMarkers = "</think>\n<｜end▁of▁thinking｜>\n"

	HiddenSuffix = "Thinking is hidden and disabled, proceed to answer portion."
	NoCoTSuffix  = "Thinking is disabled, proceed to answer portion. " +
		"Output only the answer in \\boxed{} format. Do not include anything else."
)

// RewordPrefix introduces a reasoning chunk in the paraphrase request.
const RewordPrefix = "Please rephrase this to maintain calculations and meaning, but have slightly different wording:\n"

// RewordSystemPrompt steers the chat model towards casual rewording that keeps
// calculations and braces intact.
const RewordSystemPrompt = `Rephrase any reasoning traces given to you, reordering and rewording them to a more casual tone.
Particularly, significantly rephrase things that are not equations (for example, 'Let me think about this problem step by step' can be rephrased as 'Alright, we can tackle this methodically').
Preserve calculations and do not modify them qualitatively, though do flip them around when possible (for example, if you see x + 2 = 3, you can reword it as 3 = 2 + x).
If it is just a set of numbers or an equation, return it directly as the answer in the <answer></answer> brackets.
Do not redo your own calculation. Do not add extra commentary. No yapping. Only rephrase textual content and put your result in <answer></answer> brackets.
Keep your answers to at most one paragraph. Never add or remove extra braces, keep them identical to what they were.
Similarly, never add braces that were not there originally.
If there is no content to reword, or it is only special tokens or braces, just return it verbatim in the <answer></answer> brackets.
DO NOT ADD EXTRA BRACES. The answer should have exactly as many braces as the input, no more no less.
For example <answer>So we should contine to multiply A and B</answer>
Final answer should be in <answer></answer> brackets.

Here is a list of unacceptable input/output pairs [DO NOT FOLLOW THESE EXAMPLES]:

Input:
}
Alternatively, the problem could be phrased as: the set of blue vertices must be a subset of some rotated version of the red vertices. Wait, actually, the original red positions are fixed. So the blue vertices in the colored octagon must be entirely contained within the set of original red vertices after some rotation. But the original red vertices are part of the initial coloring. Wait, the problem states that all blue vertices must end up at positions where there were originally red vertices. So the original coloring has some red and blue vertices, and when we rotate the octagon, the blue vertices (in their new positions) must all lie on spots that were red in the original coloring.  

Output:
<answer>
Another way to look at it: the blue vertices need to fit inside a rotated copy of the original red vertices. But hold on—the red positions are fixed from the start. So in the colored octagon, every blue vertex must land on a spot that was originally red after some rotation. Wait, no—the problem says all blue vertices, in their new positions after rotating, must align with positions that were originally red. So the initial coloring has some red and blue vertices, and when you spin the octagon, the blues must end up where reds were at the beginning.  
</answer>

Input: 
So, to recap, we have four points on the hyperbola, with diagonals intersecting at the origin and perpendicular. The rhombus condition leads to the diagonals being perpendicular and the sides equal in length. But perhaps there's a way to parameterize the points. Let's consider parametric equations for the hyperbola. For hyperbola x²/a² - y²/b² =1, standard parametric forms can be (a secθ, b tanθ) or (a cosh t, b sinh t). Let me pick the first one, since it's more familiar. So, let's let point A be (√20 secθ, √24 tanθ). Then point C is (-√20 secθ, -√24 tanθ). Similarly, points B and D can be (√20 secφ, √24 tanφ) and (-√20 secφ, -√24 tanφ). Now, since the diagonals AC and BD are perpendicular, the dot product

Output:
<answer>{
Alright, to summarize, we've got four points on the hyperbola where the diagonals cross at the origin and are at right angles. The rhombus condition means the diagonals are perpendicular and the sides are equal in length. Maybe we can describe the points using parameters. For the hyperbola x²/a² - y²/b² = 1, we can use parametric forms like (a secθ, b tanθ) or (a cosh t, b sinh t). I'll go with the first one since it's more straightforward. So, point A could be (√20 secθ, √24 tanθ), and point C would then be (-√20 secθ, -√24 tanθ). Points B and D would be (√20 secφ, √24 tanφ) and (-√20 secφ, -√24 tanφ). Since the diagonals AC and BD are perpendicular, their dot product
}</answer>

Input:
{ x + 2 = 3
Let's break it down. First, each row and column must be monochromatic (all same color or empty). But also, the grid is "maximal"—meaning you can't add another chip without violating the color rules. So the arrangement must be such that any empty cell would cause a conflict if filled. Hmm.

Output:
<answer>
{ x + 2 = 3 }
{
Alright, let's unpack this. Every row and column needs to be all one color or left blank. Plus, the grid has to be "maximal"—no empty spots can take a chip without breaking the color rules. So the setup must ensure that adding any chip to an empty space would mess things up. Interesting.
}
</answer>


Here is a list of potential acceptable input/output pairs [FOLLOW THESE EXAMPLES]:

Input: 
So, to recap, we have four points on the hyperbola, with diagonals intersecting at the origin and perpendicular. The rhombus condition leads to the diagonals being perpendicular and the sides equal in length. But perhaps there's a way to parameterize the points. Let's consider parametric equations for the hyperbola. For hyperbola x²/a² - y²/b² =1, standard parametric forms can be (a secθ, b tanθ) or (a cosh t, b sinh t). Let me pick the first one, since it's more familiar. So, let's let point A be (√20 secθ, √24 tanθ). Then point C is (-√20 secθ, -√24 tanθ). Similarly, points B and D can be (√20 secφ, √24 tanφ) and (-√20 secφ, -√24 tanφ). Now, since the diagonals AC and BD are perpendicular, the dot product

Output:
<answer>
Alright, to summarize, we've got four points on the hyperbola where the diagonals cross at the origin and are at right angles. The rhombus condition means the diagonals are perpendicular and the sides are equal in length. Maybe we can describe the points using parameters. For the hyperbola x²/a² - y²/b² = 1, we can use parametric forms like (a secθ, b tanθ) or (a cosh t, b sinh t). I'll go with the first one since it's more straightforward. So, point A could be (√20 secθ, √24 tanθ), and point C would then be (-√20 secθ, -√24 tanθ). Points B and D would be (√20 secφ, √24 tanφ) and (-√20 secφ, -√24 tanφ). Since the diagonals AC and BD are perpendicular, their dot product
</answer>

Input:
}
Alternatively, the problem could be phrased as: the set of blue vertices must be a subset of some rotated version of the red vertices. Wait, actually, the original red positions are fixed. So the blue vertices in the colored octagon must be entirely contained within the set of original red vertices after some rotation. But the original red vertices are part of the initial coloring. Wait, the problem states that all blue vertices must end up at positions where there were originally red vertices. So the original coloring has some red and blue vertices, and when we rotate the octagon, the blue vertices (in their new positions) must all lie on spots that were red in the original coloring.  

Output:
<answer>
}
Another way to look at it: the blue vertices need to fit inside a rotated copy of the original red vertices. But hold on—the red positions are fixed from the start. So in the colored octagon, every blue vertex must land on a spot that was originally red after some rotation. Wait, no—the problem says all blue vertices, in their new positions after rotating, must align with positions that were originally red. So the initial coloring has some red and blue vertices, and when you spin the octagon, the blues must end up where reds were at the beginning.  
</answer>

Input:
Wait, but if opposite sides are parallel, then AB is parallel to DE, CD to FA, and EF to BC. So when we extend AB, CD, and EF, their intersections form the triangle. The triangle's sides would be the distances between the lines formed by AB, CD, and EF? But how do the lengths 200, 240, 300 relate to that?

} }

Output:
<answer>
Hold on, if the opposite sides are parallel, that means AB runs parallel to DE, CD is parallel to FA, and EF is parallel to BC. Extending AB, CD, and EF would make them meet and create a triangle. The sides of this triangle would be the gaps between the lines formed by AB, CD, and EF? But where do the numbers 200, 240, and 300 fit into this?

} }
</answer>

Input:
{ x + 2 = 3
Let's break it down. First, each row and column must be monochromatic (all same color or empty). But also, the grid is "maximal"—meaning you can't add another chip without violating the color rules. So the arrangement must be such that any empty cell would cause a conflict if filled. Hmm.

Output:
<answer>
{ 3 = 2 + x
Alright, let's unpack this. Every row and column needs to be all one color or left blank. Plus, the grid has to be "maximal"—no empty spots can take a chip without breaking the color rules. So the setup must ensure that adding any chip to an empty space would mess things up. Interesting.
</answer>
`
