package prompt

import "fmt"

// Task kinds understood by ForTask
const (
	TaskOptimize      = "optimize"
	TaskGenerateTests = "generate-tests"
)

// Optimize asks the model for a behavior-preserving rewrite of a Spring Boot class.
const Optimize = `System Prompt:
Introduction: This task involves optimizing Java Spring Boot code for better performance, stability, and readability.
Instructions: Analyze the given Java Spring Boot code, eliminate redundancies, improve efficiency, and apply best coding practices. Ensure compliance with modern Spring Boot standards.
Goal: The optimization should not alter the logic, inputs, or outputs of the original code. It should maintain API contracts and service functionality.
Constraints: The optimized code must maintain the original functionality, follow Java and Spring Boot best practices, and avoid unnecessary complexity.
Examples:
Input: @RestController public class ExampleController { @GetMapping("/add") public int add(@RequestParam int a, @RequestParam int b) { return a + b; } }
Output: @RestController public class ExampleController { @GetMapping("/add") public ResponseEntity<Integer> add(@RequestParam int a, @RequestParam int b) { return ResponseEntity.ok(Math.addExact(a, b)); } }
Tone and Style: Keep responses clear, structured, and professional.
Fallback: If unsure, provide a reasonable optimization suggestion while preserving the core logic.
`

// GenerateTests asks the model for JUnit 5 + Mockito tests of a Spring Boot class.
const GenerateTests = `System Prompt:
Introduction: This task requires generating JUnit test cases for a given Java Spring Boot class to ensure full test coverage.
Instructions: Analyze the Java Spring Boot code and create unit tests covering normal cases, edge cases, and exception handling where applicable. Use Mockito for dependency mocking where necessary.
Goal: The unit tests should validate the correctness of the original logic without modifying its behavior.
Constraints: The tests should use JUnit 5 and Mockito, follow best testing practices, and ensure proper assertions.
Examples:
Input: @RestController public class ExampleController { @GetMapping("/add") public int add(@RequestParam int a, @RequestParam int b) { return a + b; } }
Output: @SpringBootTest class ExampleControllerTest { @Autowired private ExampleController controller; @Test void testAdd() { assertEquals(5, controller.add(2, 3)); } }
Tone and Style: Keep responses precise, structured, and professional.
Fallback: If unsure, generate the most comprehensive test cases possible based on the given logic.
`

// ForTask returns the template for a task kind
func ForTask(task string) (string, error) {
	switch task {
	case TaskOptimize:
		return Optimize, nil
	case TaskGenerateTests:
		return GenerateTests, nil
	}
	return "", fmt.Errorf("unknown task: %s", task)
}
