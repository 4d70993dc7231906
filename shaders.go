package sprig

// Attribute locations used by the default shaders. Devices bind mesh and
// instance buffers to these locations.
//
const (
	AttribPosition = 0
	AttribUV       = 1
	AttribRegion   = 2 // per instance
	AttribMatrix   = 3 // per instance, 4 consecutive locations
)

// DefaultVertexShader is the built-in instanced sprite vertex shader.
//
const DefaultVertexShader = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aRegion;
layout (location = 3) in mat4 aMVP;

out vec2 vTexCoords;

void main()
{
	gl_Position = aMVP * vec4(aPos, 1.0);
	vTexCoords = aRegion.xy + aUV * aRegion.zw;
}
`

// DefaultFragmentShader is the built-in sprite fragment shader.
//
const DefaultFragmentShader = `#version 330 core
in vec2 vTexCoords;

out vec4 fragColor;

uniform sampler2D uTexture;

void main()
{
	vec4 c = texture(uTexture, vTexCoords);
	if (c.a == 0.0)
		discard;
	fragColor = c;
}
`
